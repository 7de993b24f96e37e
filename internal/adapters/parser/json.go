package parser

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"telegram-text-export/internal/domain"
	"telegram-text-export/internal/ports"
	"telegram-text-export/internal/telegram"
)

// Записи с сырыми TL-объектами в формате takeout.
const (
	kindTLMessage = "tl_message"
	kindTLUser    = "tl_user"
	kindTLChat    = "tl_chat"
)

const (
	initialLineSize = 64 * 1024
	// DefaultMaxLineSize ограничивает длину одной строки дампа.
	DefaultMaxLineSize = 64 * 1024 * 1024
)

var (
	// ErrUnknownKind возвращается для записи с неизвестным полем kind.
	ErrUnknownKind = errors.New("unknown record kind")
	// ErrUnknownType возвращается для действия или вложения с неизвестным типом.
	ErrUnknownType = errors.New("unknown content type")
)

// Option определяет функциональную опцию для JsonParser.
type Option func(*JsonParser)

// WithLogger - опция для установки логгера.
func WithLogger(l *slog.Logger) Option {
	return func(p *JsonParser) {
		if l != nil {
			p.log = l
		}
	}
}

// WithMaxLineSize задает максимальную длину строки дампа.
func WithMaxLineSize(size int) Option {
	return func(p *JsonParser) {
		if size > 0 {
			p.maxLineSize = size
		}
	}
}

// JsonParser реализует интерфейс Parser для дампа в формате JSON Lines:
// одна строка - одна запись вида {"kind": ..., "data": ...}.
type JsonParser struct {
	log         *slog.Logger
	maxLineSize int
}

// NewJsonParser создает новый экземпляр JsonParser.
func NewJsonParser(opts ...Option) ports.Parser {
	p := &JsonParser{
		log:         slog.Default(),
		maxLineSize: DefaultMaxLineSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewReader создает потоковый читатель записей.
func (p *JsonParser) NewReader(r io.Reader) ports.RecordReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, min(initialLineSize, p.maxLineSize)), p.maxLineSize)
	return &RecordReader{scanner: scanner, log: p.log}
}

// RecordReader читает записи дампа по одной.
type RecordReader struct {
	scanner *bufio.Scanner
	log     *slog.Logger
	line    int
	skipped int
}

// Skipped возвращает число пропущенных пустых записей.
func (r *RecordReader) Skipped() int {
	return r.skipped
}

type envelope struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// Next возвращает очередную запись или io.EOF.
func (r *RecordReader) Next() (domain.Record, error) {
	for r.scanner.Scan() {
		r.line++
		line := strings.TrimSpace(r.scanner.Text())
		if line == "" {
			continue
		}

		var env envelope
		if err := json.Unmarshal([]byte(line), &env); err != nil {
			return domain.Record{}, fmt.Errorf("line %d: failed to unmarshal json: %w", r.line, err)
		}
		record, err := decodeRecord(env)
		if errors.Is(err, telegram.ErrEmptyMessage) || errors.Is(err, telegram.ErrEmptyPeer) {
			r.skipped++
			r.log.Debug("empty record skipped", "line", r.line, "kind", env.Kind)
			continue
		}
		if err != nil {
			return domain.Record{}, fmt.Errorf("line %d: %s: %w", r.line, env.Kind, err)
		}
		return record, nil
	}
	if err := r.scanner.Err(); err != nil {
		return domain.Record{}, fmt.Errorf("line %d: failed to read dump: %w", r.line+1, err)
	}
	return domain.Record{}, io.EOF
}

func decodeRecord(env envelope) (domain.Record, error) {
	record := domain.Record{Kind: domain.RecordKind(env.Kind)}
	var err error
	switch env.Kind {
	case string(domain.RecordPersonal):
		record.Personal = new(domain.PersonalInfo)
		err = json.Unmarshal(env.Data, record.Personal)
	case string(domain.RecordUserpics):
		record.Userpics = new(domain.UserpicsInfo)
		err = json.Unmarshal(env.Data, record.Userpics)
	case string(domain.RecordUserpic):
		record.Userpic = new(domain.Photo)
		err = json.Unmarshal(env.Data, record.Userpic)
	case string(domain.RecordContacts):
		record.Contacts = new(domain.ContactsList)
		err = json.Unmarshal(env.Data, record.Contacts)
	case string(domain.RecordSessions):
		record.Sessions = new(domain.SessionsList)
		err = json.Unmarshal(env.Data, record.Sessions)
	case string(domain.RecordDialogs), string(domain.RecordLeftChannels):
		record.Dialogs, err = decodeDialogs(env.Data)
	case string(domain.RecordDialog), string(domain.RecordLeftChannel):
		record.Dialog, err = decodeDialog(env.Data)
	case string(domain.RecordPeer):
		record.Peer, err = decodePeer(env.Data)
	case string(domain.RecordMessage):
		record.Message, err = decodeMessage(env.Data)
	case kindTLMessage:
		record.Kind = domain.RecordMessage
		record.Message, err = decodeTLMessage(env.Data)
	case kindTLUser, kindTLChat:
		record.Kind = domain.RecordPeer
		record.Peer, err = decodeTLPeer(env.Kind, env.Data)
	default:
		return domain.Record{}, fmt.Errorf("%q: %w", env.Kind, ErrUnknownKind)
	}
	if err != nil {
		return domain.Record{}, err
	}
	return record, nil
}

type wireDialog struct {
	Type           string `json:"type"`
	Name           string `json:"name"`
	Peer           string `json:"peer"`
	RelativePath   string `json:"relative_path"`
	OnlyMyMessages bool   `json:"only_my_messages"`
}

var dialogTypes = map[string]domain.DialogType{
	"":                domain.DialogTypeUnknown,
	"unknown":         domain.DialogTypeUnknown,
	"personal":        domain.DialogTypePersonal,
	"bot":             domain.DialogTypeBot,
	"private_group":   domain.DialogTypePrivateGroup,
	"public_group":    domain.DialogTypePublicGroup,
	"private_channel": domain.DialogTypePrivateChannel,
	"public_channel":  domain.DialogTypePublicChannel,
}

func (w wireDialog) toDomain() (domain.DialogInfo, error) {
	dialogType, ok := dialogTypes[w.Type]
	if !ok {
		return domain.DialogInfo{}, fmt.Errorf("dialog type %q: %w", w.Type, ErrUnknownType)
	}
	peerID, err := parsePeerID(w.Peer)
	if err != nil {
		return domain.DialogInfo{}, err
	}
	return domain.DialogInfo{
		Type:           dialogType,
		Name:           w.Name,
		PeerID:         peerID,
		RelativePath:   w.RelativePath,
		OnlyMyMessages: w.OnlyMyMessages,
	}, nil
}

func decodeDialogs(data []byte) (*domain.DialogsInfo, error) {
	var wire struct {
		List []wireDialog `json:"list"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	result := &domain.DialogsInfo{List: make([]domain.DialogInfo, 0, len(wire.List))}
	for i, item := range wire.List {
		dialog, err := item.toDomain()
		if err != nil {
			return nil, fmt.Errorf("dialog %d: %w", i, err)
		}
		result.List = append(result.List, dialog)
	}
	return result, nil
}

func decodeDialog(data []byte) (*domain.DialogInfo, error) {
	var wire wireDialog
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	dialog, err := wire.toDomain()
	if err != nil {
		return nil, err
	}
	return &dialog, nil
}

// parsePeerID разбирает ссылку вида "user5" или "chat7". Пустая строка -
// отсутствие ссылки.
func parsePeerID(value string) (domain.PeerID, error) {
	if value == "" {
		return domain.PeerID{}, nil
	}
	var (
		kind   domain.PeerKind
		digits string
	)
	switch {
	case strings.HasPrefix(value, "user"):
		kind, digits = domain.PeerKindUser, strings.TrimPrefix(value, "user")
	case strings.HasPrefix(value, "chat"):
		kind, digits = domain.PeerKindChat, strings.TrimPrefix(value, "chat")
	default:
		return domain.PeerID{}, fmt.Errorf("peer %q: %w", value, ErrUnknownType)
	}
	id, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || id == 0 {
		return domain.PeerID{}, fmt.Errorf("peer %q: invalid id", value)
	}
	return domain.PeerID{Kind: kind, ID: id}, nil
}

func decodePeer(data []byte) (domain.Peer, error) {
	var wire struct {
		User *domain.User `json:"user"`
		Chat *domain.Chat `json:"chat"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	switch {
	case wire.User != nil && wire.Chat == nil:
		return *wire.User, nil
	case wire.Chat != nil && wire.User == nil:
		return *wire.Chat, nil
	}
	return nil, errors.New("peer must contain exactly one of user or chat")
}

type wireTL struct {
	Payload []byte      `json:"payload"`
	File    domain.File `json:"file"`
}

func decodeTLMessage(data []byte) (*domain.Message, error) {
	var wire wireTL
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	raw, err := telegram.DecodeMessage(wire.Payload)
	if err != nil {
		return nil, err
	}
	message, err := telegram.MapMessage(raw, wire.File)
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func decodeTLPeer(kind string, data []byte) (domain.Peer, error) {
	var wire wireTL
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	if kind == kindTLUser {
		raw, err := telegram.DecodeUser(wire.Payload)
		if err != nil {
			return nil, err
		}
		return telegram.MapUser(raw)
	}
	raw, err := telegram.DecodeChat(wire.Payload)
	if err != nil {
		return nil, err
	}
	return telegram.MapChat(raw)
}
