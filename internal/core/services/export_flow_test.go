package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-text-export/internal/adapters/exporter"
	"telegram-text-export/internal/adapters/parser"
	"telegram-text-export/internal/adapters/source"
	"telegram-text-export/internal/domain"
)

// Полный цикл: дамп в памяти → парсер → сервис → текстовые файлы.
func TestExportFlow(t *testing.T) {
	dump := `{"kind":"dialogs","data":{"list":[{"type":"personal","name":"Bob","peer":"user2"}]}}
{"kind":"dialog","data":{"type":"personal","name":"Bob","peer":"user2"}}
{"kind":"peer","data":{"user":{"id":2,"info":{"first_name":"Bob"}}}}
{"kind":"message","data":{"id":1,"from_id":2,"text":"one"}}
{"kind":"message","data":{"id":2,"from_id":2,"text":"two"}}
{"kind":"message","data":{"id":3,"from_id":2,"text":"three"}}
`
	root := t.TempDir() + string(os.PathSeparator)
	writer := exporter.NewTextWriter(exporter.WithLineBreak(exporter.LineBreakLF), exporter.WithLocation(time.UTC))
	service := NewExportService(
		parser.NewJsonParser(),
		writer,
		domain.Settings{Path: root, InternalLinksDomain: "https://t.me/"},
		WithBatchSize(2),
	)

	summary, err := service.Export(context.Background(), source.NewMemorySource([]byte(dump)))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "result.txt"), summary.MainFilePath)
	assert.Equal(t, 1, summary.Dialogs)
	assert.Equal(t, 3, summary.Messages)

	result, err := os.ReadFile(filepath.Join(root, "result.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Chats (1) - chats.txt\n\n", string(result))

	messages, err := os.ReadFile(filepath.Join(root, "chats", "chat_1", "messages.txt"))
	require.NoError(t, err)
	assert.Equal(t,
		"ID: 1\nFrom: Bob\nText: one\n"+
			"\n"+
			"ID: 2\nFrom: Bob\nText: two\n"+
			"\n"+
			"ID: 3\nFrom: Bob\nText: three\n",
		string(messages))
}
