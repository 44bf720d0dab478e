// Package uploads stores listing images under a static file root. Incoming
// files are staged first and only moved into place once the owning record has
// been persisted, so a failed create or update never leaves orphaned files.
package uploads

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/carventory/internal/config"
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Store manages the upload directory and staging area.
type Store struct {
	dir        string
	stagingDir string
	maxBytes   int64
	logger     *zap.Logger
}

// NewStore creates both directories if needed.
func NewStore(cfg config.UploadsConfig, logger *zap.Logger) (*Store, error) {
	for _, dir := range []string{cfg.Dir, cfg.StagingDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
		}
	}
	return &Store{dir: cfg.Dir, stagingDir: cfg.StagingDir, maxBytes: cfg.MaxFileBytes, logger: logger}, nil
}

// Staging holds provisionally accepted files until Commit or Discard.
type Staging struct {
	store     *Store
	files     []stagedFile
	committed bool
}

type stagedFile struct {
	stagedPath string
	finalName  string
}

// Stage validates and writes the uploaded files into the staging area.
func (s *Store) Stage(files []*multipart.FileHeader) (*Staging, error) {
	staging := &Staging{store: s}
	for _, header := range files {
		if s.maxBytes > 0 && header.Size > s.maxBytes {
			staging.Discard()
			return nil, fmt.Errorf("file %s exceeds size limit", header.Filename)
		}
		ext, ok := allowedImageTypes[strings.ToLower(header.Header.Get("Content-Type"))]
		if !ok {
			staging.Discard()
			return nil, fmt.Errorf("invalid file type for %s: only jpg, jpeg, png and webp are allowed", header.Filename)
		}

		name := uuid.NewString() + ext
		stagedPath := filepath.Join(s.stagingDir, name)
		if err := writeFile(header, stagedPath); err != nil {
			staging.Discard()
			return nil, err
		}
		staging.files = append(staging.files, stagedFile{stagedPath: stagedPath, finalName: name})
	}
	return staging, nil
}

// URLs returns the public URLs the files will have after Commit.
func (st *Staging) URLs() []string {
	urls := make([]string, 0, len(st.files))
	for _, f := range st.files {
		urls = append(urls, "/uploads/"+f.finalName)
	}
	return urls
}

// Count returns the number of staged files.
func (st *Staging) Count() int {
	return len(st.files)
}

// Commit moves staged files into the serving directory.
func (st *Staging) Commit() error {
	for _, f := range st.files {
		if err := os.Rename(f.stagedPath, filepath.Join(st.store.dir, f.finalName)); err != nil {
			return fmt.Errorf("commit staged file %s: %w", f.finalName, err)
		}
	}
	st.committed = true
	return nil
}

// Discard removes staged files. Safe to call after Commit; it then no-ops.
func (st *Staging) Discard() {
	if st == nil || st.committed {
		return
	}
	for _, f := range st.files {
		if err := os.Remove(f.stagedPath); err != nil && !os.IsNotExist(err) && st.store.logger != nil {
			st.store.logger.Warn("discard staged upload", zap.String("path", f.stagedPath), zap.Error(err))
		}
	}
	st.files = nil
}

// Remove deletes previously committed images by their public URLs. Cleanup is
// best effort; missing files are ignored.
func (s *Store) Remove(urls []string) {
	for _, u := range urls {
		name := path.Base(u)
		if name == "." || name == "/" {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) && s.logger != nil {
			s.logger.Warn("remove upload", zap.String("url", u), zap.Error(err))
		}
	}
}

func writeFile(header *multipart.FileHeader, dst string) error {
	src, err := header.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		os.Remove(dst)
		return err
	}
	return nil
}
