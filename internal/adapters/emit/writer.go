// Package emit writes rendered pages into the output directory.
package emit

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/stencil/internal/core/domain"
	"go.trai.ch/stencil/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Emitter = (*Writer)(nil)

// Writer implements ports.Emitter with atomic file replacement.
// A file whose content already matches the output is left untouched.
type Writer struct{}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Emit writes the output to filename below outDir.
func (w *Writer) Emit(ctx context.Context, outDir, filename string, output *domain.RenderedOutput) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if output == nil {
		return zerr.With(zerr.Wrap(domain.ErrEmitFailed, "no output to write"), "filename", filename)
	}

	target, err := targetPath(outDir, filename)
	if err != nil {
		return err
	}

	//nolint:gosec // Path is validated to stay inside the output directory
	if existing, err := os.ReadFile(target); err == nil && bytes.Equal(existing, output.Content) {
		return nil
	}

	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return emitError(err, "failed to create output directory", target)
	}

	tmp, err := os.CreateTemp(dir, ".stencil-*")
	if err != nil {
		return emitError(err, "failed to create temporary file", target)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // Already renamed on success

	if _, err := tmp.Write(output.Content); err != nil {
		_ = tmp.Close()
		return emitError(err, "failed to write output", target)
	}
	if err := tmp.Chmod(domain.FilePerm); err != nil {
		_ = tmp.Close()
		return emitError(err, "failed to set output permissions", target)
	}
	if err := tmp.Close(); err != nil {
		return emitError(err, "failed to close output", target)
	}

	if err := os.Rename(tmpName, target); err != nil {
		return emitError(err, "failed to replace output", target)
	}

	return nil
}

// targetPath joins filename onto outDir and rejects paths that escape it.
func targetPath(outDir, filename string) (string, error) {
	target := filepath.Join(outDir, filename)
	rel, err := filepath.Rel(outDir, target)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Join(
			domain.ErrEmitFailed,
			zerr.With(zerr.With(zerr.Wrap(domain.ErrOutputPathOutsideRoot, "invalid output filename"),
				"filename", filename), "out_dir", outDir),
		)
	}
	return target, nil
}

func emitError(err error, msg, path string) error {
	return errors.Join(domain.ErrEmitFailed, zerr.With(zerr.Wrap(err, msg), "path", path))
}
