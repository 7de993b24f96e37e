package exporter

import (
	"errors"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/xerrors"

	"telegram-text-export/internal/domain"
	"telegram-text-export/internal/ports"
)

// ErrProtocolViolation возвращается, когда вызовы TextWriter идут не в том
// порядке, которого требует протокол. Это ошибка вызывающего кода:
// экспорт нужно прервать.
var ErrProtocolViolation = errors.New("export protocol violation")

const (
	mainFileName     = "result.txt"
	contactsFileName = "contacts.txt"
	sessionsFileName = "sessions.txt"
	chatsFileName    = "chats.txt"
	leftFileName     = "left_chats.txt"
	chatFileName     = "messages.txt"

	noMessagesText         = "No messages in this chat."
	noOutgoingMessagesText = "No outgoing messages in this chat."
)

type writerState int

const (
	stateIdle writerState = iota
	stateStarted
	stateDialogs
	stateLeftChannels
	stateFinished
)

func (s writerState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateStarted:
		return "started"
	case stateDialogs:
		return "dialogs"
	case stateLeftChannels:
		return "left channels"
	case stateFinished:
		return "finished"
	}
	return "state(" + strconv.Itoa(int(s)) + ")"
}

// chatFile существует только пока диалог открыт.
type chatFile struct {
	file   *File
	number string
	empty  bool
	onlyMy bool
}

// chatGroup - состояние группы диалогов (обычных или покинутых каналов).
type chatGroup struct {
	paths  []string
	digits int
	opened int
	chat   *chatFile
	ended  bool
}

// writerStats - счетчики записанного за сессию, попадают в итоговый лог.
type writerStats struct {
	Userpics     int
	Contacts     int
	Sessions     int
	Dialogs      int
	LeftChannels int
	Messages     int
}

// Option определяет функциональную опцию для TextWriter.
type Option func(*TextWriter)

// WithLineBreak задает окончание строк для всех файлов экспорта.
func WithLineBreak(lineBreak string) Option {
	return func(w *TextWriter) {
		if lineBreak != "" {
			w.kv = NewSerializer(lineBreak)
		}
	}
}

// WithLocation задает часовой пояс для дат.
func WithLocation(loc *time.Location) Option {
	return func(w *TextWriter) {
		if loc != nil {
			w.loc = loc
		}
	}
}

// WithLogger - опция для установки логгера.
func WithLogger(l *slog.Logger) Option {
	return func(w *TextWriter) {
		if l != nil {
			w.log = l
		}
	}
}

// TextWriter пишет экспорт в виде набора текстовых файлов.
// Не предназначен для одновременного использования из нескольких горутин.
type TextWriter struct {
	kv       Serializer
	loc      *time.Location
	log      *slog.Logger
	messages MessageSerializer

	state    writerState
	settings domain.Settings
	root     string
	result   *File

	userpicsOpen  bool
	userpicsCount int

	// dialogIndex общий для обычных диалогов и покинутых каналов.
	dialogIndex int
	group       *chatGroup

	stats writerStats
}

var _ ports.Writer = (*TextWriter)(nil)

// NewTextWriter создает TextWriter с использованием функциональных опций.
func NewTextWriter(opts ...Option) *TextWriter {
	w := &TextWriter{
		kv:  NewSerializer(""),
		loc: time.Local,
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func violation(op, format string, args ...any) error {
	return xerrors.Errorf("%s: "+format+": %w", append(append([]any{op}, args...), ErrProtocolViolation)...)
}

func hasTrailingSeparator(p string) bool {
	return p != "" && (strings.HasSuffix(p, "/") || os.IsPathSeparator(p[len(p)-1]))
}

// Start открывает сессию экспорта.
func (w *TextWriter) Start(settings domain.Settings) error {
	if w.state != stateIdle {
		return violation("start", "writer is %s", w.state)
	}
	if !hasTrailingSeparator(settings.Path) {
		return violation("start", "path %q must end with a separator", settings.Path)
	}
	root, err := filepath.Abs(settings.Path)
	if err != nil {
		return xerrors.Errorf("resolve export path: %w", err)
	}

	w.settings = settings
	w.root = root
	w.messages = NewMessageSerializer(w.kv, w.loc, settings.InternalLinksDomain)
	w.result = NewFile(w.pathWithRelativePath(mainFileName))
	w.state = stateStarted

	w.log.Info("export started", "path", w.root)
	return nil
}

// MainFilePath возвращает абсолютный путь к result.txt.
func (w *TextWriter) MainFilePath() string {
	return w.pathWithRelativePath(mainFileName)
}

func (w *TextWriter) pathWithRelativePath(relative string) string {
	return filepath.Join(w.root, filepath.FromSlash(relative))
}

func (w *TextWriter) lineBreak() string {
	return w.kv.LineBreak()
}

// requireStarted проверяет, что сессия открыта и не находится внутри
// блока фотографий профиля.
func (w *TextWriter) requireStarted(op string) error {
	if w.state != stateStarted {
		return violation(op, "writer is %s", w.state)
	}
	if w.userpicsOpen {
		return violation(op, "userpics are not finished")
	}
	return nil
}

// WritePersonal записывает информацию о владельце аккаунта.
func (w *TextWriter) WritePersonal(data domain.PersonalInfo) error {
	if err := w.requireStarted("write personal"); err != nil {
		return err
	}

	lb := w.lineBreak()
	info := data.User.Info
	serialized := "Personal information" + lb + lb +
		w.kv.SerializeKeyValue([]KeyValue{
			{"First name", info.FirstName},
			{"Last name", info.LastName},
			{"Phone number", FormatPhoneNumber(info.PhoneNumber)},
			{"Username", FormatUsername(data.User.Username)},
			{"Bio", data.Bio},
		}) + lb
	return w.result.WriteBlock([]byte(serialized))
}

// WriteUserpicsStart открывает блок фотографий профиля.
func (w *TextWriter) WriteUserpicsStart(data domain.UserpicsInfo) error {
	if err := w.requireStarted("write userpics start"); err != nil {
		return err
	}

	w.userpicsOpen = true
	w.userpicsCount = data.Count
	if w.userpicsCount == 0 {
		return nil
	}
	lb := w.lineBreak()
	header := "Personal photos (" + strconv.Itoa(w.userpicsCount) + ")" + lb + lb
	return w.result.WriteBlock([]byte(header))
}

// WriteUserpicsSlice записывает очередную порцию фотографий профиля.
func (w *TextWriter) WriteUserpicsSlice(data domain.UserpicsSlice) error {
	const op = "write userpics slice"
	if w.state != stateStarted || !w.userpicsOpen {
		return violation(op, "userpics are not started")
	}
	if len(data.List) == 0 {
		return violation(op, "empty slice")
	}

	var b strings.Builder
	for _, userpic := range data.List {
		if userpic.Date == 0 {
			b.WriteString("(deleted photo)")
		} else {
			b.WriteString(FormatDateTime(userpic.Date, w.loc))
			b.WriteString(" - ")
			if userpic.Image.File.RelativePath == "" {
				b.WriteString("(file unavailable)")
			} else {
				b.WriteString(userpic.Image.File.RelativePath)
			}
		}
		b.WriteString(w.lineBreak())
	}
	w.stats.Userpics += len(data.List)
	return w.result.WriteBlock([]byte(b.String()))
}

// WriteUserpicsEnd закрывает блок фотографий. Для пустого набора
// ничего не пишется.
func (w *TextWriter) WriteUserpicsEnd() error {
	if w.state != stateStarted || !w.userpicsOpen {
		return violation("write userpics end", "userpics are not started")
	}

	w.userpicsOpen = false
	if w.userpicsCount == 0 {
		return nil
	}
	return w.result.WriteBlock([]byte(w.lineBreak()))
}

// WriteContactsList записывает contacts.txt, если контакты есть.
func (w *TextWriter) WriteContactsList(data domain.ContactsList) error {
	if err := w.requireStarted("write contacts"); err != nil {
		return err
	}
	if len(data.List) == 0 {
		return nil
	}

	lb := w.lineBreak()
	list := make([]string, 0, len(data.List))
	for _, index := range sortedContactsIndices(data.List) {
		contact := data.List[index]
		if contact.FirstName == "" && contact.LastName == "" && contact.PhoneNumber == "" {
			list = append(list, "(deleted user)"+lb)
			continue
		}
		list = append(list, w.kv.SerializeKeyValue([]KeyValue{
			{"First name", contact.FirstName},
			{"Last name", contact.LastName},
			{"Phone number", FormatPhoneNumber(contact.PhoneNumber)},
			{"Date", FormatDateTime(contact.Date, w.loc)},
		}))
	}
	if err := w.writeSideFile(contactsFileName, strings.Join(list, lb)); err != nil {
		return err
	}

	w.stats.Contacts = len(data.List)
	return w.writeSummary("Contacts", len(data.List), contactsFileName)
}

// sortedContactsIndices упорядочивает контакты по имени без учета регистра.
func sortedContactsIndices(list []domain.ContactInfo) []int {
	names := make([]string, len(list))
	indices := make([]int, len(list))
	for i, contact := range list {
		names[i] = strings.ToLower(contact.FirstName + " " + contact.LastName)
		indices[i] = i
	}
	sort.SliceStable(indices, func(a, b int) bool {
		return names[indices[a]] < names[indices[b]]
	})
	return indices
}

// WriteSessionsList записывает sessions.txt, если сессии есть.
func (w *TextWriter) WriteSessionsList(data domain.SessionsList) error {
	if err := w.requireStarted("write sessions"); err != nil {
		return err
	}
	if len(data.List) == 0 {
		return nil
	}

	list := make([]string, 0, len(data.List))
	for _, session := range data.List {
		applicationName := session.ApplicationName
		if applicationName == "" {
			applicationName = "(unknown)"
		}
		list = append(list, w.kv.SerializeKeyValue([]KeyValue{
			{"Last active", FormatDateTime(session.LastActive, w.loc)},
			{"Last IP address", session.IP},
			{"Last country", session.Country},
			{"Last region", session.Region},
			{"Application name", applicationName},
			{"Application version", session.ApplicationVersion},
			{"Device model", session.DeviceModel},
			{"Platform", session.Platform},
			{"System version", session.SystemVersion},
			{"Created", FormatDateTime(session.Created, w.loc)},
		}))
	}
	if err := w.writeSideFile(sessionsFileName, strings.Join(list, w.lineBreak())); err != nil {
		return err
	}

	w.stats.Sessions = len(data.List)
	return w.writeSummary("Sessions", len(data.List), sessionsFileName)
}

func (w *TextWriter) writeSideFile(relative, content string) error {
	file := NewFile(w.pathWithRelativePath(relative))
	if err := file.WriteBlock([]byte(content)); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func (w *TextWriter) writeSummary(listName string, count int, fileName string) error {
	lb := w.lineBreak()
	header := listName + " (" + strconv.Itoa(count) + ") - " + fileName + lb + lb
	return w.result.WriteBlock([]byte(header))
}

// WriteDialogsStart записывает chats.txt и открывает группу диалогов.
func (w *TextWriter) WriteDialogsStart(data domain.DialogsInfo) error {
	if err := w.requireStarted("write dialogs start"); err != nil {
		return err
	}
	return w.writeChatsStart(data, stateDialogs, "Chats", chatsFileName)
}

// WriteDialogStart открывает файл очередного диалога.
func (w *TextWriter) WriteDialogStart(data domain.DialogInfo) error {
	return w.writeChatStart("write dialog start", stateDialogs, data)
}

// WriteDialogSlice дописывает порцию сообщений в открытый диалог.
func (w *TextWriter) WriteDialogSlice(data domain.MessagesSlice) error {
	return w.writeChatSlice("write dialog slice", stateDialogs, data)
}

// WriteDialogEnd закрывает файл диалога.
func (w *TextWriter) WriteDialogEnd() error {
	return w.writeChatEnd("write dialog end", stateDialogs)
}

// WriteDialogsEnd закрывает группу диалогов.
func (w *TextWriter) WriteDialogsEnd() error {
	return w.writeChatsEnd("write dialogs end", stateDialogs)
}

// WriteLeftChannelsStart записывает left_chats.txt и открывает группу
// покинутых каналов. Нумерация продолжает нумерацию обычных диалогов.
func (w *TextWriter) WriteLeftChannelsStart(data domain.DialogsInfo) error {
	const op = "write left channels start"
	switch w.state {
	case stateStarted:
		if w.userpicsOpen {
			return violation(op, "userpics are not finished")
		}
	case stateDialogs:
		if w.group.chat != nil {
			return violation(op, "dialog is still open")
		}
	default:
		return violation(op, "writer is %s", w.state)
	}
	return w.writeChatsStart(data, stateLeftChannels, "Left chats", leftFileName)
}

// WriteLeftChannelStart открывает файл очередного покинутого канала.
func (w *TextWriter) WriteLeftChannelStart(data domain.DialogInfo) error {
	return w.writeChatStart("write left channel start", stateLeftChannels, data)
}

// WriteLeftChannelSlice дописывает порцию сообщений покинутого канала.
func (w *TextWriter) WriteLeftChannelSlice(data domain.MessagesSlice) error {
	return w.writeChatSlice("write left channel slice", stateLeftChannels, data)
}

// WriteLeftChannelEnd закрывает файл покинутого канала.
func (w *TextWriter) WriteLeftChannelEnd() error {
	return w.writeChatEnd("write left channel end", stateLeftChannels)
}

// WriteLeftChannelsEnd закрывает группу покинутых каналов.
func (w *TextWriter) WriteLeftChannelsEnd() error {
	return w.writeChatsEnd("write left channels end", stateLeftChannels)
}

func dialogTypeString(t domain.DialogType) string {
	switch t {
	case domain.DialogTypePersonal:
		return "Personal chat"
	case domain.DialogTypeBot:
		return "Bot chat"
	case domain.DialogTypePrivateGroup:
		return "Private group"
	case domain.DialogTypePublicGroup:
		return "Public group"
	case domain.DialogTypePrivateChannel:
		return "Private channel"
	case domain.DialogTypePublicChannel:
		// Совпадает с приватным каналом, как в существующих архивах.
		return "Private channel"
	}
	return "(unknown)"
}

func dialogNameString(name string, t domain.DialogType) string {
	if name != "" {
		return name
	}
	switch t {
	case domain.DialogTypePersonal:
		return "(deleted user)"
	case domain.DialogTypeBot:
		return "(deleted bot)"
	case domain.DialogTypePrivateGroup, domain.DialogTypePublicGroup:
		return "(deleted group)"
	case domain.DialogTypePrivateChannel, domain.DialogTypePublicChannel:
		return "(deleted channel)"
	}
	return "(unknown)"
}

// chatRelativePath возвращает путь к файлу сообщений диалога.
func chatRelativePath(dir string) string {
	return path.Join(dir, chatFileName)
}

// writeChatsStart переводит писатель в состояние next только после
// успешной записи списка и строки итога.
func (w *TextWriter) writeChatsStart(data domain.DialogsInfo, next writerState, listName, fileName string) error {
	group := &chatGroup{}
	if len(data.List) > 0 {
		group.digits = len(strconv.Itoa(len(data.List) - 1))
		list := make([]string, 0, len(data.List))
		for i, dialog := range data.List {
			dir := dialog.RelativePath
			if dir == "" {
				dir = "chats/chat_" + NumberToString(int64(w.dialogIndex+i+1), group.digits) + "/"
			}
			group.paths = append(group.paths, dir)
			list = append(list, w.kv.SerializeKeyValue([]KeyValue{
				{"Name", dialogNameString(dialog.Name, dialog.Type)},
				{"Type", dialogTypeString(dialog.Type)},
				{"Content", chatRelativePath(dir)},
			}))
		}
		if err := w.writeSideFile(fileName, strings.Join(list, w.lineBreak())); err != nil {
			return err
		}
		if err := w.writeSummary(listName, len(data.List), fileName); err != nil {
			return err
		}
	}

	w.group = group
	w.state = next
	return nil
}

func (w *TextWriter) requireGroup(op string, expected writerState) error {
	if w.state != expected {
		return violation(op, "writer is %s", w.state)
	}
	if w.group.ended {
		return violation(op, "%s are already finished", expected)
	}
	return nil
}

func (w *TextWriter) writeChatStart(op string, expected writerState, data domain.DialogInfo) error {
	if err := w.requireGroup(op, expected); err != nil {
		return err
	}
	group := w.group
	if group.chat != nil {
		return violation(op, "previous dialog is still open")
	}
	if group.opened >= len(group.paths) {
		return violation(op, "only %d dialogs were announced", len(group.paths))
	}

	w.dialogIndex++
	dir := data.RelativePath
	if dir == "" {
		dir = group.paths[group.opened]
	}
	group.opened++
	group.chat = &chatFile{
		file:   NewFile(w.pathWithRelativePath(chatRelativePath(dir))),
		number: NumberToString(int64(w.dialogIndex), group.digits),
		empty:  true,
		onlyMy: data.OnlyMyMessages,
	}
	if expected == stateDialogs {
		w.stats.Dialogs++
	} else {
		w.stats.LeftChannels++
	}

	w.log.Debug("dialog started", "number", group.chat.number, "name", data.Name, "path", dir)
	return nil
}

func (w *TextWriter) writeChatSlice(op string, expected writerState, data domain.MessagesSlice) error {
	if err := w.requireGroup(op, expected); err != nil {
		return err
	}
	chat := w.group.chat
	if chat == nil {
		return violation(op, "no dialog is open")
	}
	if len(data.List) == 0 {
		return violation(op, "empty slice")
	}

	chat.empty = false
	lb := w.lineBreak()
	list := make([]string, 0, len(data.List))
	for _, message := range data.List {
		serialized, err := w.messages.Serialize(message, data.Peers)
		if err != nil {
			return xerrors.Errorf("serialize message %d: %w", message.ID, err)
		}
		if !strings.HasSuffix(serialized, lb) {
			serialized += lb
		}
		list = append(list, serialized)
	}
	full := strings.Join(list, lb)
	if !chat.file.Empty() {
		full = lb + full
	}
	if err := chat.file.WriteBlock([]byte(full)); err != nil {
		return err
	}
	w.stats.Messages += len(data.List)
	return nil
}

func (w *TextWriter) writeChatEnd(op string, expected writerState) error {
	if err := w.requireGroup(op, expected); err != nil {
		return err
	}
	chat := w.group.chat
	if chat == nil {
		return violation(op, "no dialog is open")
	}
	w.group.chat = nil

	if chat.empty {
		text := noMessagesText
		if chat.onlyMy {
			text = noOutgoingMessagesText
		}
		if err := chat.file.WriteBlock([]byte(text + w.lineBreak())); err != nil {
			_ = chat.file.Close()
			return err
		}
	}
	return chat.file.Close()
}

func (w *TextWriter) writeChatsEnd(op string, expected writerState) error {
	if err := w.requireGroup(op, expected); err != nil {
		return err
	}
	if w.group.chat != nil {
		return violation(op, "dialog is still open")
	}
	w.group.ended = true
	if missing := len(w.group.paths) - w.group.opened; missing > 0 {
		w.log.Warn("dialog group finished early", "group", expected.String(), "missing", missing)
	}
	return nil
}

// Finish завершает сессию и закрывает result.txt.
func (w *TextWriter) Finish() error {
	const op = "finish"
	switch w.state {
	case stateStarted:
		if w.userpicsOpen {
			return violation(op, "userpics are not finished")
		}
	case stateDialogs, stateLeftChannels:
		if w.group.chat != nil {
			return violation(op, "dialog is still open")
		}
	default:
		return violation(op, "writer is %s", w.state)
	}

	w.state = stateFinished
	if err := w.result.Close(); err != nil {
		return err
	}

	w.log.Info("export finished",
		"path", w.MainFilePath(),
		"dialogs", w.stats.Dialogs,
		"left_channels", w.stats.LeftChannels,
		"messages", w.stats.Messages,
	)
	return nil
}
