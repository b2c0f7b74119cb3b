package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the file locations the application resolves at startup.
// A service started by the OS runs with an unrelated working directory, so
// relative paths are anchored at the executable.
type Paths struct {
	ExecutableDir string
	ConfigFile    string
}

// GetPaths returns the application paths relative to the executable location
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %v", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}

	exeDir := filepath.Dir(exe)
	return &Paths{
		ExecutableDir: exeDir,
		ConfigFile:    filepath.Join(exeDir, "config.yaml"),
	}, nil
}

// Resolve returns path unchanged when absolute or present in the working
// directory, otherwise joined to the executable directory.
func (p *Paths) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || FileExists(path) {
		return path
	}
	return filepath.Join(p.ExecutableDir, path)
}

// ResolvePaths rewrites the credentials and log file paths with Resolve
func (c *Config) ResolvePaths() error {
	paths, err := GetPaths()
	if err != nil {
		return fmt.Errorf("failed to get paths: %w", err)
	}

	c.Sheets.CredentialsFile = paths.Resolve(c.Sheets.CredentialsFile)
	if c.Logging.FilePath != "" && !filepath.IsAbs(c.Logging.FilePath) {
		c.Logging.FilePath = filepath.Join(paths.ExecutableDir, c.Logging.FilePath)
	}

	slog.Default().Debug("Resolved configuration paths",
		slog.String("executable_dir", paths.ExecutableDir),
		slog.String("credentials_file", c.Sheets.CredentialsFile),
		slog.String("log_file", c.Logging.FilePath))
	return nil
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
