package services

import (
	"errors"
	"fmt"

	"seizure-care-server/internal/prediction"
	"seizure-care-server/internal/store"
)

// Kind classifies a service error for the transport layer.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
	KindUnavailable
	KindInternal
)

// Machine-readable error codes.
const (
	CodeMissingField      = "missing_field"
	CodeInvalidInput      = "invalid_input"
	CodeInvalidDateFormat = "invalid_date_format"
	CodeInvalidDate       = "invalid_date"
	CodeInvalidTimeFormat = "invalid_time_format"
	CodeInvalidTimes      = "invalid_times"
	CodeInvalidStatus     = "invalid_status"
	CodeInvalidOccurred   = "invalid_occurred"
	CodeInvalidFeatures   = "invalid_features"
	CodeInvalidDataFormat = "invalid_data_format"
	CodeInvalidParameter  = "invalid_parameter"
	CodeNotFound          = "not_found"
	CodeDuplicateLog      = "duplicate_log"
	CodeModelUnavailable  = "model_unavailable"
	CodeStoreUnavailable  = "store_unavailable"
	CodeInternal          = "internal_error"
)

// Error is returned by every service operation that fails.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return e.Code + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func invalid(code, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: fmt.Sprintf(format, args...)}
}

func missing(field string) *Error {
	return invalid(CodeMissingField, "Field '%s' is required", field)
}

func notFound(what, id string) *Error {
	return &Error{Kind: KindNotFound, Code: CodeNotFound, Message: fmt.Sprintf("No %s found with ID: %s", what, id), Err: store.ErrNotFound}
}

// classify turns a backend error into a service error. what names the
// resource for not-found messages.
func classify(err error, what, id string) error {
	var svcErr *Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &svcErr):
		return svcErr
	case errors.Is(err, store.ErrNotFound):
		return notFound(what, id)
	case errors.Is(err, store.ErrConflict):
		return &Error{Kind: KindConflict, Code: CodeDuplicateLog, Message: "Record conflicts with an existing " + what, Err: err}
	case errors.Is(err, store.ErrUnavailable):
		return &Error{Kind: KindUnavailable, Code: CodeStoreUnavailable, Message: "Storage is temporarily unavailable", Err: err}
	case errors.Is(err, prediction.ErrModelUnavailable):
		return &Error{Kind: KindUnavailable, Code: CodeModelUnavailable, Message: "ML model files could not be loaded", Err: err}
	}
	return &Error{Kind: KindInternal, Code: CodeInternal, Message: "An unexpected error occurred", Err: err}
}
