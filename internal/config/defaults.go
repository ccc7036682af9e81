package config

const (
	defaultKeyLength    = 4
	defaultPrefix       = "C"
	defaultThreshold    = 100.0
	defaultDestSubdir   = "selected"
	defaultWorkers      = 1
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
	defaultConfigPath   = "~/.config/burstpick/config.toml"
	defaultProjectFile  = "burstpick.toml"
	maxWorkers          = 64
	maxKeyLength        = 255
	defaultResizePixels = 0
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		KeyLength:        defaultKeyLength,
		ScorablePrefixes: []string{defaultPrefix},
		Threshold:        defaultThreshold,
		DestSubdir:       defaultDestSubdir,
		Workers:          defaultWorkers,
		ResizePixels:     defaultResizePixels,
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
