package processor

import (
	"errors"
	"fmt"
)

// Pipeline error taxonomy. Handlers map these onto HTTP statuses; the
// orchestrator maps decode faults onto warnings instead of failures.
var (
	ErrUnsupportedFormat = errors.New("unsupported resume format")
	ErrBadRequest        = errors.New("invalid request")
	ErrNotFound          = errors.New("resource not found")
	ErrStorageError      = errors.New("object storage operation failed")
	ErrExtractionFailed  = errors.New("text extraction failed")
	ErrLlmUnavailable    = errors.New("llm extraction unavailable")
	ErrPersistenceError  = errors.New("database operation failed")
	ErrConflict          = errors.New("duplicate record")
)

// ResumeProcessError carries the profile, the failed pipeline step, and a
// base error the taxonomy above can match with errors.Is.
type ResumeProcessError struct {
	ProfileID string
	Op        string
	BaseErr   error
	Detail    string
}

func (e *ResumeProcessError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (op:%s, profile:%s): %s", e.BaseErr, e.Op, e.ProfileID, e.Detail)
	}
	return fmt.Sprintf("%s (op:%s, profile:%s)", e.BaseErr, e.Op, e.ProfileID)
}

func (e *ResumeProcessError) Unwrap() error {
	return e.BaseErr
}

func (e *ResumeProcessError) Is(target error) bool {
	return errors.Is(e.BaseErr, target)
}

func NewFormatError(profileID, detail string) error {
	return &ResumeProcessError{ProfileID: profileID, Op: "validate", BaseErr: ErrUnsupportedFormat, Detail: detail}
}

func NewBadRequestError(profileID, detail string) error {
	return &ResumeProcessError{ProfileID: profileID, Op: "validate", BaseErr: ErrBadRequest, Detail: detail}
}

func NewNotFoundError(profileID, detail string) error {
	return &ResumeProcessError{ProfileID: profileID, Op: "lookup", BaseErr: ErrNotFound, Detail: detail}
}

func NewStorageError(profileID, detail string) error {
	return &ResumeProcessError{ProfileID: profileID, Op: "store", BaseErr: ErrStorageError, Detail: detail}
}

func NewExtractionError(profileID, detail string) error {
	return &ResumeProcessError{ProfileID: profileID, Op: "decode", BaseErr: ErrExtractionFailed, Detail: detail}
}

func NewLlmError(profileID, detail string) error {
	return &ResumeProcessError{ProfileID: profileID, Op: "llm", BaseErr: ErrLlmUnavailable, Detail: detail}
}

func NewPersistenceError(profileID, detail string) error {
	return &ResumeProcessError{ProfileID: profileID, Op: "persist", BaseErr: ErrPersistenceError, Detail: detail}
}

func NewConflictError(profileID, detail string) error {
	return &ResumeProcessError{ProfileID: profileID, Op: "persist", BaseErr: ErrConflict, Detail: detail}
}
