package exporter

import (
	"fmt"
	"io"
	"os"

	"telegram-text-export/internal/domain"
	"telegram-text-export/internal/ports"
)

// ConsoleReporter реализует интерфейс Reporter для вывода итога в консоль.
type ConsoleReporter struct {
	out io.Writer
}

// NewConsoleReporter создает новый экземпляр ConsoleReporter.
// Если out равен nil, вывод идет в stdout.
func NewConsoleReporter(out io.Writer) ports.Reporter {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleReporter{out: out}
}

// Report выводит итог экспорта.
func (r *ConsoleReporter) Report(summary domain.ExportSummary) error {
	if _, err := fmt.Fprintln(r.out, "--- Export Summary ---"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(r.out, "Result: %s\n", summary.MainFilePath); err != nil {
		return err
	}
	lines := []struct {
		name  string
		count int
	}{
		{"Personal photos", summary.Userpics},
		{"Contacts", summary.Contacts},
		{"Sessions", summary.Sessions},
		{"Chats", summary.Dialogs},
		{"Left chats", summary.LeftChannels},
		{"Messages", summary.Messages},
		{"Skipped records", summary.Skipped},
	}
	for _, line := range lines {
		if line.count == 0 {
			continue
		}
		if _, err := fmt.Fprintf(r.out, "%s: %d\n", line.name, line.count); err != nil {
			return err
		}
	}
	if summary.ExportID != "" {
		if _, err := fmt.Fprintf(r.out, "Export ID: %s\n", summary.ExportID); err != nil {
			return err
		}
	}
	return nil
}
