// Package config предоставляет управление конфигурацией приложения
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Export содержит параметры экспорта
type Export struct {
	Path                string `json:"path" yaml:"path" toml:"path"`
	Dump                string `json:"dump" yaml:"dump" toml:"dump"`
	InternalLinksDomain string `json:"internal_links_domain" yaml:"internal_links_domain" toml:"internal_links_domain"`
	LineBreak           string `json:"line_break" yaml:"line_break" toml:"line_break"` // auto, lf, crlf
	Timezone            string `json:"timezone" yaml:"timezone" toml:"timezone"`       // Local, UTC или имя из базы IANA
	BatchSize           int    `json:"batch_size" yaml:"batch_size" toml:"batch_size"`
}

// Logging содержит конфигурацию логирования
type Logging struct {
	Level  string `json:"level" yaml:"level" toml:"level"`    // debug, info, warn, error
	Format string `json:"format" yaml:"format" toml:"format"` // auto, text, json
}

// Config содержит конфигурацию приложения
type Config struct {
	Export  Export  `json:"export" yaml:"export" toml:"export"`
	Logging Logging `json:"logging" yaml:"logging" toml:"logging"`
}

func defaultConfig() *Config {
	return &Config{
		Export: Export{
			Path:                DefaultExportPath,
			InternalLinksDomain: DefaultInternalLinksDomain,
			LineBreak:           DefaultLineBreak,
			Timezone:            DefaultTimezone,
			BatchSize:           DefaultBatchSize,
		},
		Logging: Logging{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// LoadConfig загружает конфигурацию: значения по умолчанию, затем файл
// (config.yml или *.toml), затем переменные окружения, в том числе из .env.
// Пустой path означает config.yml в текущем каталоге. Отсутствие файла
// не является ошибкой.
func LoadConfig(path string) (*Config, error) {
	// Загрузка переменных окружения из .env файла, если он существует
	_ = godotenv.Load()

	if path == "" {
		path = DefaultConfigFile
	}

	cfg := defaultConfig()
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}
	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return loadFromTOML(path, cfg)
	default:
		return loadFromYAML(path, cfg)
	}
}

// loadFromYAML дополняет cfg значениями из YAML-файла
func loadFromYAML(filename string, cfg *Config) error {
	data, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse YAML config %s: %w", filename, err)
	}
	return nil
}

// loadFromTOML дополняет cfg значениями из TOML-файла
func loadFromTOML(filename string, cfg *Config) error {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if _, err := toml.DecodeFile(filename, cfg); err != nil {
		return fmt.Errorf("failed to parse TOML config %s: %w", filename, err)
	}
	return nil
}

// loadFromEnv переопределяет значения из переменных окружения
func loadFromEnv(cfg *Config) error {
	cfg.Export.Path = getEnv("EXPORT_PATH", cfg.Export.Path)
	cfg.Export.Dump = getEnv("EXPORT_DUMP", cfg.Export.Dump)
	cfg.Export.InternalLinksDomain = getEnv("EXPORT_LINKS_DOMAIN", cfg.Export.InternalLinksDomain)
	cfg.Export.LineBreak = getEnv("EXPORT_LINE_BREAK", cfg.Export.LineBreak)
	cfg.Export.Timezone = getEnv("EXPORT_TIMEZONE", cfg.Export.Timezone)
	cfg.Logging.Level = getEnv("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = getEnv("LOG_FORMAT", cfg.Logging.Format)

	if batchSize := os.Getenv("EXPORT_BATCH_SIZE"); batchSize != "" {
		value, err := strconv.Atoi(batchSize)
		if err != nil {
			return fmt.Errorf("invalid EXPORT_BATCH_SIZE: %w", err)
		}
		cfg.Export.BatchSize = value
	}
	return nil
}

// ExportRoot возвращает каталог экспорта с завершающим разделителем.
func (c *Config) ExportRoot() string {
	path := c.Export.Path
	if path == "" || strings.HasSuffix(path, "/") || os.IsPathSeparator(path[len(path)-1]) {
		return path
	}
	return path + string(os.PathSeparator)
}

// LineBreak возвращает окончание строк для файлов экспорта. Пустая строка
// означает окончание строк платформы.
func (c *Config) LineBreak() string {
	switch c.Export.LineBreak {
	case LineBreakLF:
		return "\n"
	case LineBreakCRLF:
		return "\r\n"
	}
	return ""
}

// Location возвращает часовой пояс для дат экспорта.
func (c *Config) Location() (*time.Location, error) {
	switch c.Export.Timezone {
	case "", "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Export.Timezone)
	if err != nil {
		return nil, fmt.Errorf("export.timezone: %w", err)
	}
	return loc, nil
}

// Validate проверяет, являются ли значения конфигурации допустимыми
func (c *Config) Validate() error {
	if c.Export.Path == "" {
		return fmt.Errorf("export.path cannot be empty")
	}

	if c.Export.BatchSize <= 0 || c.Export.BatchSize > MaxBatchSize {
		return fmt.Errorf("export.batch_size must be between 1 and %d", MaxBatchSize)
	}

	switch c.Export.LineBreak {
	case LineBreakAuto, LineBreakLF, LineBreakCRLF:
		// all good
	default:
		return fmt.Errorf("export.line_break must be one of: auto, lf, crlf")
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		// all good
	default:
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	switch c.Logging.Format {
	case LogFormatAuto, LogFormatText, LogFormatJSON:
		// all good
	default:
		return fmt.Errorf("logging.format must be one of: auto, text, json")
	}

	return nil
}

// getEnv извлекает значение переменной окружения или возвращает значение по умолчанию, если она не установлена
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
