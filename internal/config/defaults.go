package config

// ConfigName is the config file name without extension.
const ConfigName = "tasktray"

// AppName names the XDG subdirectories.
const AppName = "tasktray"

// Store defaults
const (
	DefaultStoreBackend = "file"
)

// Window defaults
const (
	DefaultRecoveryDelayMS = 100
	DefaultMinWidth        = 280
	DefaultMinHeight       = 400
)

// UI defaults
const (
	DefaultRelativeDates = true
	DefaultLogLevel      = "info"
)
