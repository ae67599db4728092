package publish

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/vango-dev/vtree/internal/errors"
)

// FileSink writes documents under a directory.
type FileSink struct {
	dir string
}

// NewFileSink creates a sink rooted at dir. The directory is created on
// first publish.
func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir}
}

// Publish writes doc to dir/doc.Name through a temp file and a rename, so
// readers never see a partial document.
func (s *FileSink) Publish(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := filepath.Join(s.dir, doc.Name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.New("E151").WithDetail(path).Wrap(err)
	}

	f, err := os.CreateTemp(filepath.Dir(path), ".vtree-*")
	if err != nil {
		return errors.New("E151").WithDetail(path).Wrap(err)
	}
	tmp := f.Name()
	if _, err := io.Copy(f, doc.Body); err != nil {
		f.Close()
		os.Remove(tmp)
		return errors.New("E151").WithDetail(path).Wrap(err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return errors.New("E151").WithDetail(path).Wrap(err)
	}
	if err := os.Chmod(tmp, 0644); err != nil {
		os.Remove(tmp)
		return errors.New("E151").WithDetail(path).Wrap(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.New("E151").WithDetail(path).Wrap(err)
	}
	return nil
}
