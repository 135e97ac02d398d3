package substitute

import (
	"fmt"

	"gitlab.com/tozd/go/errors"
)

var (
	ErrNotFound    = errors.Base("file not found")
	ErrEncoding    = errors.Base("encoding error")
	ErrWrite       = errors.Base("write error")
	ErrInvalidRule = errors.Base("invalid rule")
)

// FileError ties an error kind to the path it happened on.
// Both the kind and the underlying cause are reachable with errors.Is.
type FileError struct {
	Kind error
	Path string
	Err  error
}

func (e *FileError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Path)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *FileError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func fileError(kind error, path string, err error) error {
	return errors.WithStack(&FileError{Kind: kind, Path: path, Err: err})
}
