package storage

import (
	"bufio"
	"context"
	"errors"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"
)

// LocalStore writes artifacts into a directory served over HTTP.
type LocalStore struct {
	dir       string
	urlPrefix string
	now       clock
}

// NewLocalStore stores artifacts in dir and reports them under urlPrefix (e.g. "/outputted_resumes").
func NewLocalStore(dir, urlPrefix string) *LocalStore {
	return &LocalStore{dir: dir, urlPrefix: urlPrefix, now: time.Now}
}

// Dir returns the output directory.
func (s *LocalStore) Dir() string {
	return s.dir
}

// EnsureDir creates the output directory if needed.
func (s *LocalStore) EnsureDir() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return &WriteError{Name: s.dir, Message: "cannot create output directory", Cause: err}
	}
	return nil
}

// Save creates a new file named after originalName and the current time, bumping
// the millisecond stamp until the name is free. A failed render removes the file.
func (s *LocalStore) Save(ctx context.Context, originalName string, render RenderFunc) (*Artifact, error) {
	if err := s.EnsureDir(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base := SanitizeFilename(originalName)
	ms := s.now().UnixMilli()

	var (
		f    *os.File
		name string
	)
	for attempt := 0; ; attempt++ {
		name = ArtifactName(ms, base)
		var err error
		f, err = os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			break
		}
		if !errors.Is(err, os.ErrExist) || attempt >= maxNameAttempts {
			return nil, &WriteError{Name: name, Message: "cannot create artifact", Cause: err}
		}
		ms++
	}

	p := filepath.Join(s.dir, name)
	bw := bufio.NewWriter(f)
	w := &countingWriter{w: bw}
	if err := render(w); err != nil {
		_ = f.Close()
		_ = os.Remove(p)
		return nil, err
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		_ = os.Remove(p)
		return nil, &WriteError{Name: name, Message: "cannot flush artifact", Cause: err}
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(p)
		return nil, &WriteError{Name: name, Message: "cannot close artifact", Cause: err}
	}

	return &Artifact{
		Name:     name,
		Location: path.Join(s.urlPrefix, url.PathEscape(name)),
		Size:     w.n,
	}, nil
}
