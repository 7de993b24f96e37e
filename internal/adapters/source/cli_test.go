package source

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCliSource(t *testing.T) {
	t.Run("NewCliSource создает корректный экземпляр", func(t *testing.T) {
		source := NewCliSource("dump.jsonl")
		assert.NotNil(t, source)
	})

	t.Run("Open возвращает ошибку для пустого пути к файлу", func(t *testing.T) {
		source := &CliSource{filePath: ""}

		reader, err := source.Open()
		require.Error(t, err)
		assert.Nil(t, reader)
		assert.Equal(t, "dump file path is not set", err.Error())
	})

	t.Run("Open возвращает ошибку для несуществующего файла", func(t *testing.T) {
		source := &CliSource{filePath: filepath.Join(t.TempDir(), "missing.jsonl")}

		reader, err := source.Open()
		assert.Error(t, err)
		assert.Nil(t, reader)
	})

	t.Run("Open возвращает содержимое существующего файла", func(t *testing.T) {
		testData := []byte(`{"kind":"contacts","data":{"list":[]}}` + "\n")
		path := filepath.Join(t.TempDir(), "dump.jsonl")
		require.NoError(t, os.WriteFile(path, testData, 0o644))

		source := &CliSource{filePath: path}

		reader, err := source.Open()
		require.NoError(t, err)
		defer reader.Close()

		data, err := io.ReadAll(reader)
		require.NoError(t, err)
		assert.Equal(t, testData, data)
	})
}
