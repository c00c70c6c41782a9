// Package storage writes rendered résumés under unique names to local disk or S3.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DefaultFilename replaces an upload name that reduces to nothing.
const DefaultFilename = "resume.pdf"

// maxNameAttempts bounds how many timestamps are tried when a name is taken.
const maxNameAttempts = 1000

// Artifact is a stored rendered résumé.
type Artifact struct {
	Name     string // improved_<unix-ms>_<original>
	Location string // URL path or absolute URL where it can be downloaded
	Size     int64
}

// RenderFunc writes the document body to w.
type RenderFunc func(w io.Writer) error

// Store persists artifacts. Save must never overwrite an existing artifact.
// Errors returned by render are passed through unchanged; storage failures are *WriteError.
type Store interface {
	Save(ctx context.Context, originalName string, render RenderFunc) (*Artifact, error)
}

// WriteError reports a failure to create or finish an artifact.
type WriteError struct {
	Name    string
	Message string
	Cause   error
}

func (e *WriteError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("write error: %s: %s: %v", e.Name, e.Message, e.Cause)
	}
	return fmt.Sprintf("write error: %s: %s", e.Name, e.Message)
}

func (e *WriteError) Unwrap() error {
	return e.Cause
}

// SanitizeFilename reduces an uploaded filename to its base name.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	name = strings.TrimSpace(filepath.Base(name))
	if name == "" || name == "." || name == ".." || name == "/" {
		return DefaultFilename
	}
	return name
}

// ArtifactName builds improved_<unix-ms>_<original> from an already sanitized name.
func ArtifactName(ms int64, original string) string {
	return "improved_" + strconv.FormatInt(ms, 10) + "_" + original
}

type clock func() time.Time
