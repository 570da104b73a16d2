package utils

import (
	"os"
	"path/filepath"
)

// WritePrivateFile writes data with 0600 permissions, tightening them on an
// existing file too, and creates missing parent directories as 0700.
func WritePrivateFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return err
	}
	return os.Chmod(path, 0o600)
}
