// Package errs defines the error taxonomy shared by the generator front-ends.
package errs

import (
	"errors"
	"fmt"
)

// Code is a stable error code string.
type Code string

const (
	// Never retried.
	EInput        Code = "E_INPUT"
	EPrecondition Code = "E_PRECONDITION"

	// Backend failures. Transport and malformed responses are retried by the
	// architect; GenerationFailed is what surfaces once retries run out.
	EBackendTransport   Code = "E_BACKEND_TRANSPORT"
	EMalformedResponse  Code = "E_MALFORMED_RESPONSE"
	EMissingProjectName Code = "E_MISSING_PROJECT_NAME"
	EGenerationFailed   Code = "E_GENERATION_FAILED"

	// Best-effort failures: logged as warnings, never abort a run.
	EFSWrite      Code = "E_FS_WRITE"
	EInstall      Code = "E_INSTALL"
	EScaffoldTool Code = "E_SCAFFOLD_TOOL"
	EStyleWiring  Code = "E_STYLE_WIRING"

	// Manifest rewrite for a side that declared dependencies.
	EManifest Code = "E_MANIFEST"
)

// Error is the standard error type carried through the generator.
type Error struct {
	Code  Code
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func (e *Error) Unwrap() error { return e.Cause }

// New creates an Error with the given code and message.
func New(code Code, msg string) error {
	return &Error{Code: code, Msg: msg}
}

// Newf is New with formatting.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error wrapping an underlying cause.
func Wrap(code Code, msg string, err error) error {
	return &Error{Code: code, Msg: msg, Cause: err}
}

// GetCode extracts the code from err, or "" if err carries none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Message returns the human message of err without the code prefix.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return e.Msg + ": " + e.Cause.Error()
		}
		return e.Msg
	}
	return err.Error()
}

// ExitCode maps an error to the process exit status: 0 for nil, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}
