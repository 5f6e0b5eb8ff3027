// Package failure defines the typed error carried from external process
// execution and shell integration up to the process exit code.
package failure

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// DefaultExitCode is reported when no more specific exit code is available.
	DefaultExitCode = 1

	exitCodeOnlyTemplateConstant = "exit code %d"
)

// Kind classifies a Failure.
type Kind string

// Supported failure kinds.
const (
	KindSpawnFailure         Kind = "spawn_failure"
	KindNonZeroExit          Kind = "non_zero_exit"
	KindRelayIOFailure       Kind = "relay_io_failure"
	KindConfigurationMissing Kind = "configuration_missing"
	KindFileSystemFailure    Kind = "file_system_failure"
)

// Failure carries an exit code and an optional human-readable message.
type Failure struct {
	Kind    Kind
	Code    int
	Message string
	Cause   error
}

// New constructs a Failure without an underlying cause.
func New(kind Kind, code int, message string) *Failure {
	return &Failure{Kind: kind, Code: normalizeCode(code), Message: message}
}

// Wrap constructs a Failure whose message is drawn from cause.
func Wrap(kind Kind, code int, cause error) *Failure {
	message := ""
	if cause != nil {
		message = cause.Error()
	}
	return &Failure{Kind: kind, Code: normalizeCode(code), Message: message, Cause: cause}
}

// Error implements error. The kind and code stay out of the text; KindOf and ExitCode expose them.
func (failure *Failure) Error() string {
	trimmedMessage := strings.TrimSpace(failure.Message)
	if len(trimmedMessage) == 0 {
		return fmt.Sprintf(exitCodeOnlyTemplateConstant, failure.Code)
	}
	return trimmedMessage
}

// Unwrap exposes the underlying cause.
func (failure *Failure) Unwrap() error {
	return failure.Cause
}

// HasMessage reports whether the failure carries text worth displaying.
func (failure *Failure) HasMessage() bool {
	return len(strings.TrimSpace(failure.Message)) > 0
}

// Is matches failures of the same kind.
func (failure *Failure) Is(target error) bool {
	targetFailure, isFailure := target.(*Failure)
	if !isFailure || targetFailure == nil {
		return false
	}
	return targetFailure.Kind == failure.Kind
}

// ExitCode resolves the process exit code for err: zero for nil, the wrapped
// failure's code when present, and DefaultExitCode otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var typedFailure *Failure
	if errors.As(err, &typedFailure) {
		return normalizeCode(typedFailure.Code)
	}
	return DefaultExitCode
}

// Silent reports whether err is itself a Failure with nothing to display, such as a
// relayed child exit whose output already reached the terminal. Wrapped failures are
// never silent because the wrapping adds context.
func Silent(err error) bool {
	typedFailure, isFailure := err.(*Failure)
	return isFailure && typedFailure != nil && !typedFailure.HasMessage()
}

// KindOf extracts the kind of the first Failure in err's chain.
func KindOf(err error) (Kind, bool) {
	var typedFailure *Failure
	if !errors.As(err, &typedFailure) {
		return "", false
	}
	return typedFailure.Kind, true
}

func normalizeCode(code int) int {
	if code <= 0 {
		return DefaultExitCode
	}
	return code
}
