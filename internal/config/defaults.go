package config

// Default configuration values.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = LogFormatText
)

// Supported log handler formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Defaults returns the lowest-precedence configuration layer.
func Defaults() map[string]any {
	return map[string]any{
		"catalog.path":       "",
		"catalog.format":     "",
		"compiler.validate":  true,
		"compiler.apply_ddl": true,
		"log.level":          DefaultLogLevel,
		"log.format":         DefaultLogFormat,
	}
}
