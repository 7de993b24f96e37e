package source

import (
	"fmt"
	"io"
	"os"

	"telegram-text-export/internal/ports"
)

// CliSource реализует интерфейс DataSource для чтения дампа из файла,
// указанного в командной строке.
type CliSource struct {
	filePath string
}

// NewCliSource создает новый экземпляр CliSource.
func NewCliSource(filePath string) ports.DataSource {
	return &CliSource{filePath: filePath}
}

// Open открывает файл дампа по указанному пути. Значение "-" означает stdin.
func (s *CliSource) Open() (io.ReadCloser, error) {
	if s.filePath == "" {
		return nil, fmt.Errorf("dump file path is not set")
	}
	if s.filePath == "-" {
		return io.NopCloser(os.Stdin), nil
	}

	file, err := os.Open(s.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open dump %s: %w", s.filePath, err)
	}
	return file, nil
}
