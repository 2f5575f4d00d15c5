package config

import (
	"os"
	"path/filepath"
)

// GetRuntimePath is usable before any config is parsed (the .env lives there).
func GetRuntimePath() string {
	return resolveRuntimePath(os.Getenv("DESK_RUNTIME_PATH"))
}

func GetEnvPath() string {
	return filepath.Join(GetRuntimePath(), ".env")
}

func resolveRuntimePath(path string) string {
	if path == "" {
		path = ".shopdesk"
	}

	if !filepath.IsAbs(path) {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path)
	}
	return path
}
