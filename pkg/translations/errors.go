package translations

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration indicates the translations root is missing or is not a directory.
	ErrConfiguration = errors.New("translations: invalid translations root")

	// ErrParse indicates a translation file could not be read or decoded.
	ErrParse = errors.New("translations: invalid translation file")
)

// ParseError describes a single translation file that was skipped during load.
type ParseError struct {
	Err      error
	Path     string
	Language string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("translations: error in json file %s (%s): %v", e.Language, e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is reports ErrParse as a match so callers can test the kind without errors.As.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}
