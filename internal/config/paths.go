package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// ResolveDir returns the absolute data directory. Relative paths are taken
// from the working directory the process was started in.
func (d DataConfig) ResolveDir() (string, error) {
	if filepath.IsAbs(d.Dir) {
		return filepath.Clean(d.Dir), nil
	}
	abs, err := filepath.Abs(d.Dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve data directory %q: %w", d.Dir, err)
	}
	return abs, nil
}

// CanonicalPath returns <dir>/<ticker><suffix>.
func (d DataConfig) CanonicalPath(dir, ticker string) string {
	return filepath.Join(dir, ticker+d.FileSuffix)
}

// LegacyPath returns <dir>/<ticker><legacy suffix>, or "" when legacy lookup
// is disabled or would resolve to the canonical path.
func (d DataConfig) LegacyPath(dir, ticker string) string {
	if !d.LegacyLookup || d.LegacySuffix == "" || d.LegacySuffix == d.FileSuffix {
		return ""
	}
	return filepath.Join(dir, ticker+d.LegacySuffix)
}

// EnsureLogDir creates the directory holding the log file when file output
// is enabled.
func (l LoggingConfig) EnsureLogDir() error {
	if l.Output == "console" || l.FilePath == "" {
		return nil
	}
	return os.MkdirAll(filepath.Dir(l.FilePath), 0755)
}
