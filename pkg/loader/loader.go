package loader

import (
	"context"
	"fmt"
	"os"
)

// Loader reads a document into raw text. Implementations decide the supported
// formats; the pipeline only sees the extracted text.
type Loader interface {
	Load(ctx context.Context, path string) (string, error)
}

// NotFoundError marks a missing or unreadable document path. Callers are
// expected to validate paths before invoking the pipeline; this error is the
// typed signal when they do not.
type NotFoundError struct {
	Path  string
	Cause error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("document not found or unreadable: %s", e.Path)
}

func (e *NotFoundError) Unwrap() error {
	return e.Cause
}

// FileLoader loads plain-text documents from the local filesystem.
type FileLoader struct{}

func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

func (l *FileLoader) Load(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", &NotFoundError{Path: path, Cause: err}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", &NotFoundError{Path: path, Cause: err}
	}

	return string(data), nil
}
