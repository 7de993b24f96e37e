package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/xerrors"

	"telegram-text-export/internal/domain"
	"telegram-text-export/internal/ports"
)

// ErrUnexpectedRecord возвращается, когда запись дампа появляется вне
// раздела, к которому она относится (например, сообщение вне диалога).
var ErrUnexpectedRecord = errors.New("unexpected record")

const defaultBatchSize = 100

// Option - функциональная опция для настройки ExportServiceImpl.
type Option func(*ExportServiceImpl)

// WithLogger - опция для установки логгера.
func WithLogger(l *slog.Logger) Option {
	return func(s *ExportServiceImpl) {
		if l != nil {
			s.log = l
		}
	}
}

// WithBatchSize задает максимальный размер порции сообщений и фотографий,
// передаваемой во Writer за один вызов.
func WithBatchSize(size int) Option {
	return func(s *ExportServiceImpl) {
		if size > 0 {
			s.batchSize = size
		}
	}
}

// ExportServiceImpl реализует интерфейс ExportService: читает записи дампа
// и вызывает методы Writer в порядке, которого требует протокол.
type ExportServiceImpl struct {
	parser    ports.Parser
	writer    ports.Writer
	settings  domain.Settings
	batchSize int
	log       *slog.Logger
}

// NewExportService создает новый экземпляр ExportServiceImpl.
func NewExportService(parser ports.Parser, writer ports.Writer, settings domain.Settings, opts ...Option) ports.ExportService {
	s := &ExportServiceImpl{
		parser:    parser,
		writer:    writer,
		settings:  settings,
		batchSize: defaultBatchSize,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// skipCounter реализуется читателями, которые умеют пропускать пустые записи.
type skipCounter interface {
	Skipped() int
}

// Export выполняет одну сессию экспорта. Контекст проверяется между
// записями; при отмене уже записанные файлы остаются как есть.
func (s *ExportServiceImpl) Export(ctx context.Context, source ports.DataSource) (domain.ExportSummary, error) {
	exportID := uuid.NewString()
	log := s.log.With(slog.String("export_id", exportID))
	summary := domain.ExportSummary{ExportID: exportID}

	rc, err := source.Open()
	if err != nil {
		return summary, xerrors.Errorf("open dump: %w", err)
	}
	defer rc.Close()

	reader := s.parser.NewReader(rc)
	if err := s.writer.Start(s.settings); err != nil {
		return summary, xerrors.Errorf("start export: %w", err)
	}
	summary.MainFilePath = s.writer.MainFilePath()
	log.Info("export started", "path", summary.MainFilePath, "batch_size", s.batchSize)

	run := &exportRun{
		writer:    s.writer,
		batchSize: s.batchSize,
		peers:     make(map[domain.PeerID]domain.Peer),
		summary:   &summary,
		log:       log,
	}

	for {
		if err := ctx.Err(); err != nil {
			log.Warn("export interrupted", "error", err)
			return summary, xerrors.Errorf("export interrupted: %w", err)
		}
		record, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return summary, xerrors.Errorf("read dump: %w", err)
		}
		if err := run.apply(record); err != nil {
			return summary, err
		}
	}

	if counter, ok := reader.(skipCounter); ok {
		summary.Skipped = counter.Skipped()
	}
	if err := run.finish(); err != nil {
		return summary, err
	}

	log.Info("export completed",
		"dialogs", summary.Dialogs,
		"left_channels", summary.LeftChannels,
		"messages", summary.Messages,
		"skipped", summary.Skipped,
	)
	return summary, nil
}

type section int

const (
	sectionNone section = iota
	sectionDialogs
	sectionLeftChannels
)

// exportRun хранит состояние одной сессии: открытые разделы и
// накопленные, но еще не переданные во Writer порции.
type exportRun struct {
	writer    ports.Writer
	batchSize int
	log       *slog.Logger
	summary   *domain.ExportSummary

	userpicsOpen bool
	userpics     []domain.Photo

	group    section
	chat     section
	messages []domain.Message
	// peers общий на всю сессию: собеседник, встреченный в одном диалоге,
	// может упоминаться в другом.
	peers map[domain.PeerID]domain.Peer
}

func unexpected(kind domain.RecordKind, format string, args ...any) error {
	return xerrors.Errorf("%s record: %s: %w", kind, fmt.Sprintf(format, args...), ErrUnexpectedRecord)
}

func (r *exportRun) apply(record domain.Record) error {
	if record.Kind != domain.RecordUserpic {
		if err := r.closeUserpics(); err != nil {
			return err
		}
	}

	switch record.Kind {
	case domain.RecordPersonal:
		return r.writer.WritePersonal(*record.Personal)

	case domain.RecordUserpics:
		if err := r.writer.WriteUserpicsStart(*record.Userpics); err != nil {
			return err
		}
		r.userpicsOpen = true
		return nil

	case domain.RecordUserpic:
		if !r.userpicsOpen {
			return unexpected(record.Kind, "userpics are not started")
		}
		r.userpics = append(r.userpics, *record.Userpic)
		if len(r.userpics) >= r.batchSize {
			return r.flushUserpics()
		}
		return nil

	case domain.RecordContacts:
		r.summary.Contacts = len(record.Contacts.List)
		return r.writer.WriteContactsList(*record.Contacts)

	case domain.RecordSessions:
		r.summary.Sessions = len(record.Sessions.List)
		return r.writer.WriteSessionsList(*record.Sessions)

	case domain.RecordDialogs:
		if err := r.closeGroup(); err != nil {
			return err
		}
		if err := r.writer.WriteDialogsStart(*record.Dialogs); err != nil {
			return err
		}
		r.group = sectionDialogs
		return nil

	case domain.RecordLeftChannels:
		if err := r.closeGroup(); err != nil {
			return err
		}
		if err := r.writer.WriteLeftChannelsStart(*record.Dialogs); err != nil {
			return err
		}
		r.group = sectionLeftChannels
		return nil

	case domain.RecordDialog:
		return r.openChat(sectionDialogs, *record.Dialog)

	case domain.RecordLeftChannel:
		return r.openChat(sectionLeftChannels, *record.Dialog)

	case domain.RecordPeer:
		if record.Peer == nil {
			return unexpected(record.Kind, "peer is empty")
		}
		r.peers[record.Peer.PeerID()] = record.Peer
		return nil

	case domain.RecordMessage:
		if r.chat == sectionNone {
			return unexpected(record.Kind, "message %d is outside of a dialog", record.Message.ID)
		}
		r.messages = append(r.messages, *record.Message)
		if len(r.messages) >= r.batchSize {
			return r.flushMessages()
		}
		return nil
	}
	return unexpected(record.Kind, "unknown kind")
}

func (r *exportRun) flushUserpics() error {
	if len(r.userpics) == 0 {
		return nil
	}
	if err := r.writer.WriteUserpicsSlice(domain.UserpicsSlice{List: r.userpics}); err != nil {
		return err
	}
	r.summary.Userpics += len(r.userpics)
	r.userpics = nil
	return nil
}

func (r *exportRun) closeUserpics() error {
	if !r.userpicsOpen {
		return nil
	}
	if err := r.flushUserpics(); err != nil {
		return err
	}
	r.userpicsOpen = false
	return r.writer.WriteUserpicsEnd()
}

func (r *exportRun) openChat(group section, dialog domain.DialogInfo) error {
	if err := r.closeChat(); err != nil {
		return err
	}

	var err error
	if group == sectionDialogs {
		err = r.writer.WriteDialogStart(dialog)
	} else {
		err = r.writer.WriteLeftChannelStart(dialog)
	}
	if err != nil {
		return err
	}
	if group == sectionDialogs {
		r.summary.Dialogs++
	} else {
		r.summary.LeftChannels++
	}
	r.chat = group
	r.log.Debug("dialog started", "name", dialog.Name, "type", dialog.Type)
	return nil
}

func (r *exportRun) flushMessages() error {
	if len(r.messages) == 0 {
		return nil
	}
	slice := domain.MessagesSlice{List: r.messages, Peers: r.peers}

	var err error
	if r.chat == sectionDialogs {
		err = r.writer.WriteDialogSlice(slice)
	} else {
		err = r.writer.WriteLeftChannelSlice(slice)
	}
	if err != nil {
		return err
	}
	r.summary.Messages += len(r.messages)
	r.messages = nil
	return nil
}

func (r *exportRun) closeChat() error {
	if r.chat == sectionNone {
		return nil
	}
	if err := r.flushMessages(); err != nil {
		return err
	}

	chat := r.chat
	r.chat = sectionNone
	if chat == sectionDialogs {
		return r.writer.WriteDialogEnd()
	}
	return r.writer.WriteLeftChannelEnd()
}

func (r *exportRun) closeGroup() error {
	if err := r.closeChat(); err != nil {
		return err
	}

	group := r.group
	r.group = sectionNone
	switch group {
	case sectionDialogs:
		return r.writer.WriteDialogsEnd()
	case sectionLeftChannels:
		return r.writer.WriteLeftChannelsEnd()
	}
	return nil
}

func (r *exportRun) finish() error {
	if err := r.closeUserpics(); err != nil {
		return err
	}
	if err := r.closeGroup(); err != nil {
		return err
	}
	return r.writer.Finish()
}
