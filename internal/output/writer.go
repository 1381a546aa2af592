// Package output persists rendered documents to disk.
package output

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/revdash/revdash/pkg/errors"
	"github.com/revdash/revdash/pkg/logger"
)

// Writer writes report files under a base directory. An absolute
// target path bypasses the base directory.
type Writer struct {
	baseDir string
}

// NewWriter creates a Writer rooted at baseDir
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// Resolve maps a target path to its final location. Relative paths
// land under the base directory.
func (w *Writer) Resolve(path string) string {
	if filepath.IsAbs(path) || w.baseDir == "" {
		return path
	}
	return filepath.Join(w.baseDir, path)
}

// Write persists content at the target path, creating intermediate
// directories as needed. The write either fully succeeds or the
// returned error carries the failure; no partial-success reporting.
func (w *Writer) Write(path string, content []byte) (string, error) {
	outputPath := w.Resolve(path)

	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrap(errors.ErrCodeOutputWrite,
			fmt.Sprintf("failed to create output directory %s", dir), err)
	}

	if err := os.WriteFile(outputPath, content, 0644); err != nil {
		return "", errors.Wrap(errors.ErrCodeOutputWrite,
			fmt.Sprintf("failed to write %s", outputPath), err)
	}

	logger.Info("Report written",
		zap.String("path", outputPath),
		zap.Int("bytes", len(content)),
	)

	return outputPath, nil
}
