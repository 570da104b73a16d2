package internal

import (
	"fmt"
	"runtime"

	"github.com/sipeed/picoweather/pkg/config"
	"github.com/sipeed/picoweather/pkg/logger"
	"github.com/sipeed/picoweather/pkg/redaction"
)

const Logo = "🌤"

var (
	version   = "dev"
	gitCommit string
	buildTime string
	goVersion string
)

func GetConfigPath() string {
	return config.ResolveRuntimePaths().ConfigPath
}

func GetHistoryPath() string {
	return config.ResolveRuntimePaths().HistoryPath
}

// LoadConfig reads the config file and environment, then registers every
// configured key with the log redactor.
func LoadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(GetConfigPath())
	if err != nil {
		return nil, err
	}

	for _, secret := range cfg.Secrets() {
		redaction.AddSecret(secret)
	}

	return cfg, nil
}

// SetupLogging applies the configured level and optional file sink. debug
// overrides the level.
func SetupLogging(cfg *config.Config, debug bool) error {
	level, err := logger.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	if debug {
		level = logger.DEBUG
	}
	logger.SetLevel(level)

	if cfg.Logging.File != "" {
		if err := logger.EnableFileLogging(cfg.Logging.File); err != nil {
			return fmt.Errorf("enabling file logging: %w", err)
		}
	}
	return nil
}

// FormatVersion returns the version string with optional git commit
func FormatVersion() string {
	v := version
	if gitCommit != "" {
		v += fmt.Sprintf(" (git: %s)", gitCommit)
	}
	return v
}

// FormatBuildInfo returns build time and go version info
func FormatBuildInfo() (string, string) {
	build := buildTime
	goVer := goVersion
	if goVer == "" {
		goVer = runtime.Version()
	}
	return build, goVer
}

// GetVersion returns the version string
func GetVersion() string {
	return version
}
