package domain

import "errors"

// ErrorKind classifies a pipeline failure so the HTTP layer can tell
// caller faults from provider faults from our own faults.
type ErrorKind string

const (
	ValidationRejected  ErrorKind = "validation_rejected"
	ProviderRejected    ErrorKind = "provider_rejected"
	ProviderUnavailable ErrorKind = "provider_unavailable"
	StorageUnavailable  ErrorKind = "storage_unavailable"
	JobFailed           ErrorKind = "job_failed"
	JobTimedOut         ErrorKind = "job_timed_out"
	MuxFailed           ErrorKind = "mux_failed"
	PersistenceFailed   ErrorKind = "persistence_failed"
)

// PipelineError is the single error type crossing component boundaries.
// Detail carries the provider's message verbatim when there is one.
type PipelineError struct {
	Kind     ErrorKind
	Provider string
	Detail   string
	Err      error
}

func (e *PipelineError) Error() string {
	msg := string(e.Kind)
	if e.Provider != "" {
		msg += " (" + e.Provider + ")"
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

func NewValidationError(detail string) error {
	return &PipelineError{Kind: ValidationRejected, Detail: detail}
}

func NewProviderError(kind ErrorKind, provider, detail string, err error) error {
	return &PipelineError{Kind: kind, Provider: provider, Detail: detail, Err: err}
}

func NewPipelineError(kind ErrorKind, detail string, err error) error {
	return &PipelineError{Kind: kind, Detail: detail, Err: err}
}

// KindOf extracts the classification of err, or "" for foreign errors.
func KindOf(err error) ErrorKind {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

// DetailOf returns the provider detail attached to err, if any.
func DetailOf(err error) string {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Detail
	}
	return ""
}
