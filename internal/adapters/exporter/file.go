package exporter

import (
	"errors"
	"os"
	"path/filepath"

	"golang.org/x/xerrors"
)

// ErrFileClosed возвращается при записи в уже закрытый файл.
var ErrFileClosed = errors.New("file is closed")

// File - текстовый файл, в который можно только дописывать.
// Файл и его каталоги создаются при первой записи, так что пустой
// результат не оставляет следов на диске.
type File struct {
	path   string
	handle *os.File
	offset int64
	closed bool
}

// NewFile привязывает File к абсолютному пути.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path возвращает путь к файлу.
func (f *File) Path() string {
	return f.path
}

// Empty сообщает, что в файл еще ничего не записано.
func (f *File) Empty() bool {
	return f.offset == 0
}

// WriteBlock дописывает блок в конец файла.
func (f *File) WriteBlock(block []byte) error {
	if f.closed {
		return xerrors.Errorf("write %s: %w", f.path, ErrFileClosed)
	}
	if len(block) == 0 {
		return nil
	}
	if f.handle == nil {
		if err := f.open(); err != nil {
			return err
		}
	}
	n, err := f.handle.Write(block)
	f.offset += int64(n)
	if err != nil {
		return xerrors.Errorf("write %s: %w", f.path, err)
	}
	return nil
}

func (f *File) open() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return xerrors.Errorf("create directory for %s: %w", f.path, err)
	}
	handle, err := os.OpenFile(f.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return xerrors.Errorf("open %s: %w", f.path, err)
	}
	f.handle = handle
	return nil
}

// Close закрывает файл. После закрытия запись невозможна.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	if f.handle == nil {
		return nil
	}
	if err := f.handle.Close(); err != nil {
		return xerrors.Errorf("close %s: %w", f.path, err)
	}
	return nil
}
