package config

// DefaultPath is the config file read when --config is not given.
const DefaultPath = ".slidesync.yml"

// DefaultExcludes are glob patterns skipped by markdown import.
var DefaultExcludes = []string{
	".git/**",
	"node_modules/**",
	"vendor/**",
	"dist/**",
	"build/**",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		DataDir:    ".slidesync",
		StorageKey: "slides",
		Server: ServerConfig{
			Port: 8080,
		},
		Render: RenderConfig{
			StylesheetURL: "https://cdn.tailwindcss.com",
			DefaultScale:  1.0,
		},
		Presentation: PresentationConfig{
			IdleTimeoutMS: 3000,
		},
		Log: LogConfig{
			Level: LogInfo,
		},
		Import: ImportConfig{
			Exclude: append([]string(nil), DefaultExcludes...),
		},
	}
}
