// Package emit writes generated file sets to disk. Unlike the soft-failing
// metadata fetch phase, emission is all-or-nothing: the first write error
// aborts the sync and is returned to the caller.
package emit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-uigen/pkg/generate"
)

// Option configures a Writer.
type Option func(*Writer)

// WithLogger attaches a logger. The default discards output.
func WithLogger(logger *zap.Logger) Option {
	return func(w *Writer) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithFileMode overrides the permission bits for written files.
func WithFileMode(mode os.FileMode) Option {
	return func(w *Writer) {
		w.fileMode = mode
	}
}

// Writer syncs generated files beneath a destination directory.
type Writer struct {
	logger   *zap.Logger
	fileMode os.FileMode
}

// New constructs a Writer.
func New(options ...Option) *Writer {
	w := &Writer{
		logger:   zap.NewNop(),
		fileMode: 0o644,
	}
	for _, opt := range options {
		if opt != nil {
			opt(w)
		}
	}
	return w
}

// Sync writes every file beneath dest, creating directories as needed.
// Existing files are overwritten. It returns the absolute paths written, in
// input order, stopping at the first failure.
func (w *Writer) Sync(dest string, files []generate.File) ([]string, error) {
	if strings.TrimSpace(dest) == "" {
		return nil, fmt.Errorf("emit: destination directory is required")
	}

	written := make([]string, 0, len(files))
	for _, file := range files {
		target, err := securePath(dest, file.Path)
		if err != nil {
			return written, err
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return written, fmt.Errorf("emit: create directory for %s: %w", file.Path, err)
		}
		if err := os.WriteFile(target, file.Contents, w.fileMode); err != nil {
			return written, fmt.Errorf("emit: write %s: %w", file.Path, err)
		}
		w.logger.Debug("wrote generated file",
			zap.String("path", target),
			zap.Int("bytes", len(file.Contents)))
		written = append(written, target)
	}
	return written, nil
}

// securePath joins a relative output path onto dest, rejecting paths that
// would escape the destination tree.
func securePath(dest, rel string) (string, error) {
	if rel == "" {
		return "", fmt.Errorf("emit: file has an empty path")
	}
	if filepath.IsAbs(rel) {
		return "", fmt.Errorf("emit: file path %q is absolute", rel)
	}
	cleaned := filepath.Clean(filepath.FromSlash(rel))
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("emit: file path %q escapes the destination", rel)
	}
	return filepath.Join(dest, cleaned), nil
}
