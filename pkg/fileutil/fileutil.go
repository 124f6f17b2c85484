// Package fileutil provides the small filesystem helpers the CLI's report
// writer needs. Ground: teacher's pkg/fileutil.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/seoauditor/engine/pkg/failure"
)

type ErrorCause string

const ErrCausePathError ErrorCause = "path error"

type FileError struct {
	Message string
	Cause   ErrorCause
}

func (e *FileError) Error() string {
	return fmt.Sprintf("fileutil: %s: %s", e.Cause, e.Message)
}

func (e *FileError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}

// EnsureDir creates dir (and any parents) if it does not already exist.
func EnsureDir(dir string) failure.ClassifiedError {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &FileError{Message: err.Error(), Cause: ErrCausePathError}
	}
	return nil
}

// WriteFile writes data to path, ensuring the parent directory exists.
func WriteFile(path string, data []byte) failure.ClassifiedError {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &FileError{Message: err.Error(), Cause: ErrCausePathError}
	}
	return nil
}
