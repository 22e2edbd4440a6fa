package mailer

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration indicates invalid construction-time settings such as a missing root directory.
	ErrConfiguration = errors.New("mailer: invalid configuration")

	// ErrInvalidRequest indicates a request is missing a required field.
	ErrInvalidRequest = errors.New("mailer: invalid request")

	// ErrTemplateNotFound indicates the template file was not found.
	ErrTemplateNotFound = errors.New("mailer: template not found")

	// ErrRender indicates template parsing or rendering failed.
	ErrRender = errors.New("mailer: failed to render template")

	// ErrInline indicates embedding of local assets failed.
	ErrInline = errors.New("mailer: inline error")

	// ErrDelivery indicates the transport rejected or failed to send the message.
	ErrDelivery = errors.New("mailer: error in sendMail")
)

// Request validation errors. All of them match ErrInvalidRequest.
var (
	ErrNoTemplate          = fmt.Errorf("%w: no template defined", ErrInvalidRequest)
	ErrInvalidTemplateName = fmt.Errorf("%w: template name must be a single directory name", ErrInvalidRequest)
	ErrNoRecipient         = fmt.Errorf("%w: email must have at least one recipient", ErrInvalidRequest)
	ErrNoSubject           = fmt.Errorf("%w: email must have a subject", ErrInvalidRequest)
	ErrNoContent           = fmt.Errorf("%w: email must have HTML content", ErrInvalidRequest)
)

// TemplateNotFoundError carries the template path that could not be read.
type TemplateNotFoundError struct {
	Err  error
	Path string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("mailer: template file not found %s: %v", e.Path, e.Err)
}

func (e *TemplateNotFoundError) Unwrap() error {
	return e.Err
}

// Is matches ErrTemplateNotFound.
func (e *TemplateNotFoundError) Is(target error) bool {
	return target == ErrTemplateNotFound
}
