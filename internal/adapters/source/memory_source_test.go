package source

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, source interface {
	Open() (io.ReadCloser, error)
}) []byte {
	t.Helper()
	reader, err := source.Open()
	require.NoError(t, err)
	defer reader.Close()
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	return data
}

func TestMemorySource(t *testing.T) {
	t.Run("NewMemorySource создает корректный экземпляр", func(t *testing.T) {
		source := NewMemorySource([]byte("test data"))

		assert.NotNil(t, source)
	})

	t.Run("Open возвращает установленные данные", func(t *testing.T) {
		expectedData := []byte("test data")
		source := NewMemorySource(expectedData)

		assert.Equal(t, expectedData, readAll(t, source))
	})

	t.Run("Open возвращает ошибку для nil данных", func(t *testing.T) {
		source := NewMemorySource(nil)

		reader, err := source.Open()

		assert.Error(t, err)
		assert.Nil(t, reader)
		assert.Contains(t, err.Error(), "data is not set")
	})

	t.Run("Источник можно открыть повторно", func(t *testing.T) {
		originalData := []byte("test data")
		source := NewMemorySource(originalData)

		first := readAll(t, source)
		first[0] = 'X'

		assert.Equal(t, []byte("test data"), readAll(t, source))
		assert.Equal(t, []byte("test data"), originalData)
	})
}
