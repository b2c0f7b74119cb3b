package files

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// WorkbookExt is the only extension a saved workbook may carry
const WorkbookExt = ".xlsx"

var (
	// ErrNotWorkbook is returned for a target with another extension
	ErrNotWorkbook = errors.New("not an Excel workbook path")

	// ErrLockFile is returned for names Excel reserves for its lock files
	ErrLockFile = errors.New("name is reserved for Excel lock files")
)

// Manager provides file management operations
type Manager struct {
	logger *slog.Logger
}

// NewManager creates a new file manager instance
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{logger: logger.With(slog.String("component", "files"))}
}

// FileExists checks if a file exists at the given path
func (m *Manager) FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// WorkbookPath resolves where SaveWorkbook would write. An existing
// directory, or a path ending in a separator, gets defaultName appended; a
// name without extension gets .xlsx.
func (m *Manager) WorkbookPath(path, defaultName string) (string, error) {
	if path == "" {
		path = "."
	}
	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) || isDir(path) {
		path = filepath.Join(path, defaultName)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case WorkbookExt:
	case "":
		path += WorkbookExt
	default:
		return "", fmt.Errorf("%w: %s (extension: %s)", ErrNotWorkbook, path, ext)
	}

	if strings.HasPrefix(filepath.Base(path), "~$") {
		return "", fmt.Errorf("%w: %s", ErrLockFile, path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return abs, nil
}

// SaveWorkbook writes data atomically and returns the absolute path written
func (m *Manager) SaveWorkbook(path, defaultName string, data []byte) (string, error) {
	target, err := m.WorkbookPath(path, defaultName)
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(target)
	if err := m.EnsureDirectory(dir); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(dir, ".ensaio-*"+WorkbookExt)
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return "", fmt.Errorf("failed to set workbook permissions: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}

	m.logger.Info("Workbook saved",
		slog.String("path", target),
		slog.Int("size_bytes", len(data)))
	return target, nil
}

// EnsureDirectory creates a directory if it doesn't exist
func (m *Manager) EnsureDirectory(path string) error {
	if isDir(path) {
		return nil
	}
	m.logger.Debug("Creating directory", slog.String("path", path))
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
