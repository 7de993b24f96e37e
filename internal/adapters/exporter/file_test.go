package exporter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile(t *testing.T) {
	t.Run("Файл создается только при первой записи", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "out.txt")
		file := NewFile(path)

		assert.True(t, file.Empty())
		require.NoError(t, file.WriteBlock(nil))
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err))

		require.NoError(t, file.WriteBlock([]byte("one\n")))
		require.NoError(t, file.WriteBlock([]byte("two\n")))
		assert.False(t, file.Empty())
		require.NoError(t, file.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "one\ntwo\n", string(data))
	})

	t.Run("Закрытие без записи не создает файл", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "never.txt")
		file := NewFile(path)
		require.NoError(t, file.Close())
		require.NoError(t, file.Close())

		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("Запись после закрытия", func(t *testing.T) {
		file := NewFile(filepath.Join(t.TempDir(), "closed.txt"))
		require.NoError(t, file.Close())

		err := file.WriteBlock([]byte("late"))
		assert.ErrorIs(t, err, ErrFileClosed)
	})

	t.Run("Ошибка создания каталога возвращается", func(t *testing.T) {
		dir := t.TempDir()
		blocker := filepath.Join(dir, "blocker")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

		file := NewFile(filepath.Join(blocker, "out.txt"))
		err := file.WriteBlock([]byte("data"))
		assert.Error(t, err)
		assert.True(t, file.Empty())
	})
}
