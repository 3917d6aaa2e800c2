package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"riobot/domain/interfaces"

	"github.com/klauspost/compress/zstd"
)

// FilePersister stores the document as a single file, replaced atomically on
// every save. Paths ending in ".zst" are zstd-compressed.
type FilePersister struct {
	path     string
	compress bool
}

var _ interfaces.Persister = (*FilePersister)(nil)

// NewFilePersister creates a persister writing to path
func NewFilePersister(path string) *FilePersister {
	return &FilePersister{
		path:     path,
		compress: strings.HasSuffix(path, ".zst"),
	}
}

// Load returns nil when the file does not exist yet
func (p *FilePersister) Load(ctx context.Context) ([]byte, error) {
	f, err := os.Open(p.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open state file: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if p.compress {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		defer dec.Close()
		r = dec
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}
	return data, nil
}

// Save writes to a temp file in the same directory then renames it over the
// previous document, so a crash leaves either the old or the new version.
func (p *FilePersister) Save(ctx context.Context, version int64, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(p.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := p.write(tmp, data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write state version %d: %w", version, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close state file: %w", err)
	}
	if err := os.Rename(tmpName, p.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}

func (p *FilePersister) write(w io.Writer, data []byte) error {
	if !p.compress {
		_, err := w.Write(data)
		return err
	}
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}
	if _, err := enc.Write(data); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// Close is a no-op
func (p *FilePersister) Close() error { return nil }
