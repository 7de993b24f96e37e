package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"telegram-text-export/internal/adapters/exporter"
	"telegram-text-export/internal/adapters/parser"
	"telegram-text-export/internal/adapters/source"
	"telegram-text-export/internal/core/services"
	"telegram-text-export/internal/domain"
	"telegram-text-export/internal/log"
	"telegram-text-export/internal/pkg/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("export failed", "error", err)
		os.Exit(1)
	}
}

// run инкапсулирует всю логику инициализации и запуска экспорта.
func run() error {
	var configPath, dumpPath, outPath string
	flag.StringVar(&configPath, "config", config.DefaultConfigFile, "Path to config file (yaml or toml)")
	flag.StringVar(&dumpPath, "dump", "", "Path to history dump in JSON lines format, \"-\" for stdin")
	flag.StringVar(&outPath, "out", "", "Export directory")
	flag.Parse()

	// 1. Загрузка конфигурации; флаги имеют приоритет над файлом и окружением
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		// Логгер еще не инициализирован, выводим в stderr
		_, _ = fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if dumpPath != "" {
		cfg.Export.Dump = dumpPath
	}
	if outPath != "" {
		cfg.Export.Path = outPath
	}

	// 2. Инициализация логгера с маскировкой
	logger := log.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(logger)

	// 3. Валидация конфигурации
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	// 4. Сборка компонентов
	writer := exporter.NewTextWriter(
		exporter.WithLineBreak(cfg.LineBreak()),
		exporter.WithLocation(loc),
		exporter.WithLogger(logger.With(slog.String("component", "writer"))),
	)
	service := services.NewExportService(
		parser.NewJsonParser(parser.WithLogger(logger.With(slog.String("component", "parser")))),
		writer,
		domain.Settings{
			Path:                cfg.ExportRoot(),
			InternalLinksDomain: cfg.Export.InternalLinksDomain,
		},
		services.WithBatchSize(cfg.Export.BatchSize),
		services.WithLogger(logger.With(slog.String("component", "export"))),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Экспорт и итог
	summary, err := service.Export(ctx, source.NewCliSource(cfg.Export.Dump))
	if err != nil {
		return err
	}
	return exporter.NewConsoleReporter(os.Stdout).Report(summary)
}
