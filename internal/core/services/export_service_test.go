package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-text-export/internal/domain"
)

func personalRecord() domain.Record {
	return domain.Record{Kind: domain.RecordPersonal, Personal: &domain.PersonalInfo{}}
}

func contactsRecord(n int) domain.Record {
	return domain.Record{Kind: domain.RecordContacts, Contacts: &domain.ContactsList{List: make([]domain.ContactInfo, n)}}
}

func userpicRecord(id int64) domain.Record {
	return domain.Record{Kind: domain.RecordUserpic, Userpic: &domain.Photo{ID: id, Date: 100}}
}

func dialogRecord(kind domain.RecordKind, name string) domain.Record {
	return domain.Record{Kind: kind, Dialog: &domain.DialogInfo{Name: name, Type: domain.DialogTypePersonal}}
}

func messageRecord(id int) domain.Record {
	return domain.Record{Kind: domain.RecordMessage, Message: &domain.Message{ID: id, Date: 100, Text: "hi"}}
}

func runExport(t *testing.T, ctx context.Context, reader *MockReader, writer *MockWriter, opts ...Option) (domain.ExportSummary, error) {
	t.Helper()
	service := NewExportService(&MockParser{Reader: reader}, writer, domain.Settings{Path: "/export/"}, opts...)
	return service.Export(ctx, &MockSource{})
}

func TestExportService_Export(t *testing.T) {
	t.Run("Полный экспорт вызывает Writer в порядке протокола", func(t *testing.T) {
		bob := domain.User{ID: 2, Info: domain.ContactInfo{FirstName: "Bob"}}
		reader := &MockReader{
			Skips: 2,
			Records: []domain.Record{
				personalRecord(),
				{Kind: domain.RecordUserpics, Userpics: &domain.UserpicsInfo{Count: 3}},
				userpicRecord(1),
				userpicRecord(2),
				userpicRecord(3),
				contactsRecord(2),
				{Kind: domain.RecordSessions, Sessions: &domain.SessionsList{List: make([]domain.Session, 1)}},
				{Kind: domain.RecordDialogs, Dialogs: &domain.DialogsInfo{List: make([]domain.DialogInfo, 2)}},
				dialogRecord(domain.RecordDialog, "A"),
				{Kind: domain.RecordPeer, Peer: bob},
				messageRecord(1),
				messageRecord(2),
				messageRecord(3),
				dialogRecord(domain.RecordDialog, "B"),
				{Kind: domain.RecordLeftChannels, Dialogs: &domain.DialogsInfo{List: make([]domain.DialogInfo, 1)}},
				dialogRecord(domain.RecordLeftChannel, "C"),
				messageRecord(4),
			},
		}
		writer := &MockWriter{}

		summary, err := runExport(t, context.Background(), reader, writer, WithBatchSize(2))
		require.NoError(t, err)

		assert.Equal(t, []string{
			"Start",
			"Personal",
			"UserpicsStart", "UserpicsSlice(2)", "UserpicsSlice(1)", "UserpicsEnd",
			"Contacts",
			"Sessions",
			"DialogsStart",
			"DialogStart(A)", "DialogSlice(2)", "DialogSlice(1)", "DialogEnd",
			"DialogStart(B)", "DialogEnd",
			"DialogsEnd",
			"LeftChannelsStart",
			"LeftChannelStart(C)", "LeftChannelSlice(1)", "LeftChannelEnd",
			"LeftChannelsEnd",
			"Finish",
		}, writer.Calls)

		require.Len(t, writer.Slices, 3)
		assert.Equal(t, bob, domain.LookupPeer(writer.Slices[0].Peers, bob.PeerID()))
		assert.Equal(t, []int{1, 2}, []int{writer.Slices[0].List[0].ID, writer.Slices[0].List[1].ID})

		_, err = uuid.Parse(summary.ExportID)
		assert.NoError(t, err)
		assert.Equal(t, domain.ExportSummary{
			ExportID:     summary.ExportID,
			MainFilePath: "/export/result.txt",
			Userpics:     3,
			Contacts:     2,
			Sessions:     1,
			Dialogs:      2,
			LeftChannels: 1,
			Messages:     4,
			Skipped:      2,
		}, summary)
	})

	t.Run("Пустой дамп", func(t *testing.T) {
		writer := &MockWriter{}
		_, err := runExport(t, context.Background(), &MockReader{}, writer)
		require.NoError(t, err)
		assert.Equal(t, []string{"Start", "Finish"}, writer.Calls)
	})

	t.Run("Источник закрывается после экспорта", func(t *testing.T) {
		source := &MockSource{}
		service := NewExportService(&MockParser{Reader: &MockReader{}}, &MockWriter{}, domain.Settings{})
		_, err := service.Export(context.Background(), source)
		require.NoError(t, err)
		assert.True(t, source.Closed)
	})
}

func TestExportService_Errors(t *testing.T) {
	errBoom := errors.New("boom")

	t.Run("Сообщение вне диалога", func(t *testing.T) {
		writer := &MockWriter{}
		reader := &MockReader{Records: []domain.Record{personalRecord(), messageRecord(1)}}

		_, err := runExport(t, context.Background(), reader, writer)
		assert.ErrorIs(t, err, ErrUnexpectedRecord)
		assert.NotContains(t, writer.Calls, "Finish")
	})

	t.Run("Фотография без заголовка блока", func(t *testing.T) {
		_, err := runExport(t, context.Background(), &MockReader{Records: []domain.Record{userpicRecord(1)}}, &MockWriter{})
		assert.ErrorIs(t, err, ErrUnexpectedRecord)
	})

	t.Run("Ошибка Writer передается вызывающему", func(t *testing.T) {
		writer := &MockWriter{FailOn: "DialogSlice(1)", Err: errBoom}
		reader := &MockReader{Records: []domain.Record{
			{Kind: domain.RecordDialogs, Dialogs: &domain.DialogsInfo{}},
			dialogRecord(domain.RecordDialog, "A"),
			messageRecord(1),
		}}

		_, err := runExport(t, context.Background(), reader, writer)
		assert.ErrorIs(t, err, errBoom)
		assert.Equal(t, "DialogSlice(1)", writer.Calls[len(writer.Calls)-1])
	})

	t.Run("Ошибка чтения дампа", func(t *testing.T) {
		writer := &MockWriter{}
		_, err := runExport(t, context.Background(), &MockReader{Err: errBoom}, writer)
		assert.ErrorIs(t, err, errBoom)
		assert.Equal(t, []string{"Start"}, writer.Calls)
	})

	t.Run("Ошибка открытия источника", func(t *testing.T) {
		writer := &MockWriter{}
		service := NewExportService(&MockParser{Reader: &MockReader{}}, writer, domain.Settings{})
		_, err := service.Export(context.Background(), &MockSource{Err: errBoom})
		assert.ErrorIs(t, err, errBoom)
		assert.Empty(t, writer.Calls)
	})

	t.Run("Ошибка Start", func(t *testing.T) {
		writer := &MockWriter{FailOn: "Start", Err: errBoom}
		_, err := runExport(t, context.Background(), &MockReader{Records: []domain.Record{personalRecord()}}, writer)
		assert.ErrorIs(t, err, errBoom)
		assert.Equal(t, []string{"Start"}, writer.Calls)
	})

	t.Run("Отмена контекста останавливает экспорт", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		reads := 0
		reader := &MockReader{
			Records: []domain.Record{personalRecord(), contactsRecord(1), contactsRecord(1)},
			OnRead: func() {
				reads++
				if reads == 2 {
					cancel()
				}
			},
		}
		writer := &MockWriter{}

		_, err := runExport(t, ctx, reader, writer)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, []string{"Start", "Personal", "Contacts"}, writer.Calls)
	})
}
