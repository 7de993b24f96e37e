package ports

import (
	"context"
	"io"

	"telegram-text-export/internal/domain"
)

// DataSource определяет интерфейс для получения исходного дампа истории.
type DataSource interface {
	// Open открывает поток с дампом. Вызывающий обязан закрыть его.
	Open() (io.ReadCloser, error)
}

// RecordReader последовательно читает записи дампа.
type RecordReader interface {
	// Next возвращает очередную запись или io.EOF, когда записи закончились.
	Next() (domain.Record, error)
}

// Parser создает RecordReader поверх потока дампа.
type Parser interface {
	NewReader(r io.Reader) RecordReader
}

// Writer - протокол вывода экспорта. Вызовы должны поступать строго в порядке:
// Start → (Personal, Userpics, Contacts, Sessions в любом порядке) →
// Dialogs → LeftChannels → Finish.
type Writer interface {
	Start(settings domain.Settings) error

	WritePersonal(data domain.PersonalInfo) error

	WriteUserpicsStart(data domain.UserpicsInfo) error
	WriteUserpicsSlice(data domain.UserpicsSlice) error
	WriteUserpicsEnd() error

	WriteContactsList(data domain.ContactsList) error
	WriteSessionsList(data domain.SessionsList) error

	WriteDialogsStart(data domain.DialogsInfo) error
	WriteDialogStart(data domain.DialogInfo) error
	WriteDialogSlice(data domain.MessagesSlice) error
	WriteDialogEnd() error
	WriteDialogsEnd() error

	WriteLeftChannelsStart(data domain.DialogsInfo) error
	WriteLeftChannelStart(data domain.DialogInfo) error
	WriteLeftChannelSlice(data domain.MessagesSlice) error
	WriteLeftChannelEnd() error
	WriteLeftChannelsEnd() error

	Finish() error

	// MainFilePath возвращает абсолютный путь к основному файлу результата.
	MainFilePath() string
}

// ExportService прогоняет дамп через Writer.
type ExportService interface {
	Export(ctx context.Context, source DataSource) (domain.ExportSummary, error)
}

// Reporter показывает пользователю итог экспорта.
type Reporter interface {
	Report(summary domain.ExportSummary) error
}
