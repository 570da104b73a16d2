package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	EnvPicoWeatherConfig = "PICOWEATHER_CONFIG"
	EnvPicoWeatherHome   = "PICOWEATHER_HOME"
)

type RuntimePaths struct {
	HomeDir     string
	ConfigPath  string
	HistoryPath string
}

// ResolveRuntimePaths honours PICOWEATHER_CONFIG first, then
// PICOWEATHER_HOME, then ~/.picoweather.
func ResolveRuntimePaths() RuntimePaths {
	if configPath := expandHome(strings.TrimSpace(os.Getenv(EnvPicoWeatherConfig))); configPath != "" {
		return buildRuntimePaths(filepath.Dir(configPath), configPath)
	}

	homeDir := expandHome(strings.TrimSpace(os.Getenv(EnvPicoWeatherHome)))
	if homeDir == "" {
		homeDir = defaultHome()
	}

	return buildRuntimePaths(homeDir, filepath.Join(homeDir, "config.json"))
}

func defaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".picoweather"
	}
	return filepath.Join(home, ".picoweather")
}

func buildRuntimePaths(homeDir, configPath string) RuntimePaths {
	return RuntimePaths{
		HomeDir:     homeDir,
		ConfigPath:  configPath,
		HistoryPath: filepath.Join(homeDir, "history"),
	}
}

func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if len(path) > 1 && (path[1] == '/' || path[1] == '\\') {
		return filepath.Join(home, path[2:])
	}
	return home
}
