package source

import (
	"bytes"
	"fmt"
	"io"

	"telegram-text-export/internal/ports"
)

// MemorySource реализует интерфейс DataSource для чтения дампа из памяти.
type MemorySource struct {
	data []byte
}

// NewMemorySource создает новый экземпляр MemorySource.
func NewMemorySource(data []byte) ports.DataSource {
	return &MemorySource{data: data}
}

// Open возвращает поток поверх копии данных, поэтому источник можно
// открывать повторно.
func (s *MemorySource) Open() (io.ReadCloser, error) {
	if s.data == nil {
		return nil, fmt.Errorf("dump data is not set")
	}

	dataCopy := make([]byte, len(s.data))
	copy(dataCopy, s.data)

	return io.NopCloser(bytes.NewReader(dataCopy)), nil
}
