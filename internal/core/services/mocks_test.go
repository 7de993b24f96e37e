package services

import (
	"errors"
	"fmt"
	"io"

	"telegram-text-export/internal/domain"
	"telegram-text-export/internal/ports"
)

// MockWriter - мок-реализация ports.Writer, записывающая последовательность вызовов
type MockWriter struct {
	Calls  []string
	Slices []domain.MessagesSlice
	// FailOn - имя вызова, на котором нужно вернуть Err
	FailOn string
	Err    error
}

func (m *MockWriter) record(call string) error {
	m.Calls = append(m.Calls, call)
	if call == m.FailOn {
		return m.Err
	}
	return nil
}

func (m *MockWriter) Start(domain.Settings) error { return m.record("Start") }
func (m *MockWriter) WritePersonal(domain.PersonalInfo) error { return m.record("Personal") }
func (m *MockWriter) WriteUserpicsStart(domain.UserpicsInfo) error {
	return m.record("UserpicsStart")
}
func (m *MockWriter) WriteUserpicsSlice(data domain.UserpicsSlice) error {
	return m.record(fmt.Sprintf("UserpicsSlice(%d)", len(data.List)))
}
func (m *MockWriter) WriteUserpicsEnd() error { return m.record("UserpicsEnd") }
func (m *MockWriter) WriteContactsList(domain.ContactsList) error { return m.record("Contacts") }
func (m *MockWriter) WriteSessionsList(domain.SessionsList) error { return m.record("Sessions") }
func (m *MockWriter) WriteDialogsStart(domain.DialogsInfo) error { return m.record("DialogsStart") }
func (m *MockWriter) WriteDialogStart(data domain.DialogInfo) error {
	return m.record("DialogStart(" + data.Name + ")")
}
func (m *MockWriter) WriteDialogSlice(data domain.MessagesSlice) error {
	m.Slices = append(m.Slices, data)
	return m.record(fmt.Sprintf("DialogSlice(%d)", len(data.List)))
}
func (m *MockWriter) WriteDialogEnd() error { return m.record("DialogEnd") }
func (m *MockWriter) WriteDialogsEnd() error { return m.record("DialogsEnd") }
func (m *MockWriter) WriteLeftChannelsStart(domain.DialogsInfo) error {
	return m.record("LeftChannelsStart")
}
func (m *MockWriter) WriteLeftChannelStart(data domain.DialogInfo) error {
	return m.record("LeftChannelStart(" + data.Name + ")")
}
func (m *MockWriter) WriteLeftChannelSlice(data domain.MessagesSlice) error {
	m.Slices = append(m.Slices, data)
	return m.record(fmt.Sprintf("LeftChannelSlice(%d)", len(data.List)))
}
func (m *MockWriter) WriteLeftChannelEnd() error { return m.record("LeftChannelEnd") }
func (m *MockWriter) WriteLeftChannelsEnd() error { return m.record("LeftChannelsEnd") }
func (m *MockWriter) Finish() error { return m.record("Finish") }
func (m *MockWriter) MainFilePath() string { return "/export/result.txt" }

var _ ports.Writer = (*MockWriter)(nil)

// MockReader - мок-реализация ports.RecordReader поверх готового списка записей
type MockReader struct {
	Records []domain.Record
	// Err возвращается после исчерпания записей вместо io.EOF
	Err     error
	Skips   int
	OnRead  func()
	pos     int
}

func (m *MockReader) Next() (domain.Record, error) {
	if m.OnRead != nil {
		m.OnRead()
	}
	if m.pos >= len(m.Records) {
		if m.Err != nil {
			return domain.Record{}, m.Err
		}
		return domain.Record{}, io.EOF
	}
	m.pos++
	return m.Records[m.pos-1], nil
}

func (m *MockReader) Skipped() int { return m.Skips }

// MockParser - мок-реализация ports.Parser, возвращающая заданный читатель
type MockParser struct {
	Reader *MockReader
}

func (m *MockParser) NewReader(io.Reader) ports.RecordReader { return m.Reader }

// MockSource - мок-реализация ports.DataSource
type MockSource struct {
	Err    error
	Closed bool
}

func (m *MockSource) Open() (io.ReadCloser, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m, nil
}

func (m *MockSource) Read([]byte) (int, error) { return 0, io.EOF }

func (m *MockSource) Close() error {
	if m.Closed {
		return errors.New("already closed")
	}
	m.Closed = true
	return nil
}
