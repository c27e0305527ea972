package errcodes

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

type Error struct {
	HTTPCode int
	Message  string
	Code     string

	// Cause is the underlying error, kept for logs and never rendered to
	// clients.
	Cause error
}

func (err *Error) Error() string {
	if err.Cause != nil {
		return err.Message + ": " + err.Cause.Error()
	}
	return err.Message
}

func (err *Error) Unwrap() error {
	return err.Cause
}

func (err *Error) As(target interface{}) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	te.HTTPCode = err.HTTPCode
	te.Message = err.Message
	te.Code = err.Code
	te.Cause = err.Cause
	return true
}

// Is matches on code, message and status so that a freshly constructed error
// (e.g. NotFound("Sound")) can be compared against a returned one regardless
// of its cause.
func (err *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return te.HTTPCode == err.HTTPCode &&
		te.Message == err.Message &&
		te.Code == err.Code
}

// HasCode reports whether err wraps an *Error with the given machine code.
func HasCode(err error, code string) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == code
}

const (
	CodeNotFound            = "not_found"
	CodeDuplicateKey        = "duplicate_key"
	CodeConstraintViolation = "constraint_violation"
	CodeInsertError         = "insert_error"
	CodeMigrationFailed     = "migration_failed"
	CodeFetchError          = "fetch_error"
	CodeFileNotFound        = "file_not_found"
	CodeSyncInProgress      = "sync_in_progress"
)

// NotFound returns a 404 error with a message indicating the given resource.
func NotFound(resource string) error {
	return &Error{
		HTTPCode: http.StatusNotFound,
		Message:  resource + " not found.",
		Code:     CodeNotFound,
	}
}

// DuplicateKey is returned when a row with the same natural key already
// exists.
func DuplicateKey(resource string) error {
	return &Error{
		HTTPCode: http.StatusConflict,
		Message:  resource + " already exists.",
		Code:     CodeDuplicateKey,
	}
}

func ConstraintViolation(resource string, cause error) error {
	return &Error{
		HTTPCode: http.StatusUnprocessableEntity,
		Message:  resource + " violates a storage constraint.",
		Code:     CodeConstraintViolation,
		Cause:    cause,
	}
}

func InsertError(resource string, cause error) error {
	return &Error{
		HTTPCode: http.StatusInternalServerError,
		Message:  resource + " could not be saved.",
		Code:     CodeInsertError,
		Cause:    cause,
	}
}

// MigrationFailed is fatal: the store has no consistent schema to run on.
func MigrationFailed(cause error) error {
	return &Error{
		HTTPCode: http.StatusInternalServerError,
		Message:  "Database migration failed.",
		Code:     CodeMigrationFailed,
		Cause:    cause,
	}
}

// FetchError covers network and deserialization failures talking to the
// remote content server. Retryable on the next sync run.
func FetchError(cause error) error {
	return &Error{
		HTTPCode: http.StatusBadGateway,
		Message:  "The content server is unavailable right now.",
		Code:     CodeFetchError,
		Cause:    cause,
	}
}

// FileNotFound means the content row exists but its backing audio file is
// missing.
func FileNotFound(resource string) error {
	return &Error{
		HTTPCode: http.StatusNotFound,
		Message:  resource + " is unavailable.",
		Code:     CodeFileNotFound,
	}
}

func SyncInProgress() error {
	return &Error{
		HTTPCode: http.StatusConflict,
		Message:  "A sync is already running.",
		Code:     CodeSyncInProgress,
	}
}

func UnsupportedMediaType() error {
	return &Error{
		HTTPCode: http.StatusUnsupportedMediaType,
		Message:  "Unsupported Media Type",
		Code:     "unsupported_media_type",
	}
}

func UnknownParameter(param string) error {
	return &Error{
		HTTPCode: http.StatusUnprocessableEntity,
		Message:  fmt.Sprintf("Unknown Parameter %q", param),
		Code:     "unknown_parameter",
	}
}

func ValidationTypeError(msg string) error {
	return &Error{
		HTTPCode: http.StatusUnprocessableEntity,
		Message:  msg,
		Code:     "validation_type_error",
	}
}

func ValidationError(msg string) error {
	return &Error{
		HTTPCode: http.StatusUnprocessableEntity,
		Message:  msg,
		Code:     "validation_error",
	}
}

func MalformedPayload() error {
	return &Error{
		HTTPCode: http.StatusBadRequest,
		Message:  "Malformed Payload",
		Code:     "malformed_payload",
	}
}

func EmptyRequestBody() error {
	return &Error{
		HTTPCode: http.StatusBadRequest,
		Message:  "Request body can't be empty.",
		Code:     "empty_request_body",
	}
}
