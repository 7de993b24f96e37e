package config

// Default values for configuration.
const (
	// Config file defaults
	DefaultConfigFile = "config.yml"

	// Export defaults
	DefaultExportPath          = "export/"
	DefaultInternalLinksDomain = "https://t.me/"
	DefaultLineBreak           = LineBreakAuto
	DefaultTimezone            = "Local"
	DefaultBatchSize           = 100
	MaxBatchSize               = 10000

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = LogFormatAuto
)

// Допустимые значения export.line_break.
const (
	LineBreakAuto = "auto"
	LineBreakLF   = "lf"
	LineBreakCRLF = "crlf"
)

// Допустимые значения logging.format.
const (
	LogFormatAuto = "auto"
	LogFormatText = "text"
	LogFormatJSON = "json"
)
