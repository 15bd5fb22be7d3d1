// Package errors provides standardized error handling for the game list.
// It defines the error kinds the game list distinguishes, typed errors for
// files, configuration and game operations, and helpers for consistent
// error creation, wrapping, and checking across the application.
package errors

import (
	"errors"
	"fmt"
)

// Standard errors package errors that we re-export for convenience
var (
	// Unwrap unwraps an error to access the underlying error
	Unwrap = errors.Unwrap
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
)

// Common error constants for frequently occurring errors
var (
	ErrCancelled    = &ApplicationError{msg: "cancelled by user", kind: Cancelled}
	ErrNoSelection  = &ApplicationError{msg: "no game selected", kind: Cancelled}
	ErrNotAvailable = &ApplicationError{msg: "operation not available for this game", kind: InvalidOperation}
)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// File error kinds
	FileNotFound
	FileAccessDenied
	InvalidPath
	UnsupportedFormat
	FileOperationFailed
	InvalidOperation
	// Config error kinds
	InvalidConfig
	ConfigNotFound
	ConfigNotSet
	// Game operation kinds
	Cancelled
	OperationFailed
	DeleteFailed
)

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

// Error returns the error message
func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// FileError represents errors related to file operations
type FileError struct {
	ApplicationError
	path string
}

// NewFileError creates a new file error
func NewFileError(msg string, path string, kind ErrorKind, err error) *FileError {
	return &FileError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		path: path,
	}
}

// Error returns the file error message
func (e *FileError) Error() string {
	if e.path != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.path, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.path)
	}
	return e.ApplicationError.Error()
}

// Path returns the file path associated with the error
func (e *FileError) Path() string {
	return e.path
}

// ConfigError represents errors related to configuration
type ConfigError struct {
	ApplicationError
	param string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, param string, kind ErrorKind, err error) *ConfigError {
	return &ConfigError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		param: param,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.param != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.param, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.param)
	}
	return e.ApplicationError.Error()
}

// Param returns the configuration parameter associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// OperationError reports a game operation whose external call failed.
// The failure has already been shown to the user when this is returned.
type OperationError struct {
	ApplicationError
	operation string
	game      string
}

// NewOperationError creates a new operation error
func NewOperationError(operation, game string, kind ErrorKind, err error) *OperationError {
	return &OperationError{
		ApplicationError: ApplicationError{
			msg:  operation + " failed",
			err:  err,
			kind: kind,
		},
		operation: operation,
		game:      game,
	}
}

// Error returns the operation error message
func (e *OperationError) Error() string {
	if e.game != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.game, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.game)
	}
	return e.ApplicationError.Error()
}

// Operation returns the name of the failed operation
func (e *OperationError) Operation() string {
	return e.operation
}

// Game returns the path of the game the operation ran on
func (e *OperationError) Game() string {
	return e.game
}

// New creates a new error with a message
func New(msg string) error {
	return &ApplicationError{
		msg:  msg,
		kind: Unknown,
	}
}

// Newf creates a new error with a formatted message
func Newf(format string, args ...interface{}) error {
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		kind: Unknown,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: Unknown,
	}
}

// Wrapf wraps an existing error with additional formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		err:  err,
		kind: Unknown,
	}
}

type kinded interface {
	Kind() ErrorKind
}

// KindOf returns the kind of the first typed error in err's chain.
// Wrappers of kind Unknown are skipped.
func KindOf(err error) ErrorKind {
	for err != nil {
		var k kinded
		if !errors.As(err, &k) {
			return Unknown
		}
		if kind := k.Kind(); kind != Unknown {
			return kind
		}
		inner, ok := k.(interface{ Unwrap() error })
		if !ok {
			return Unknown
		}
		err = inner.Unwrap()
	}
	return Unknown
}

// IsFileNotFound checks if the error is a file not found error
func IsFileNotFound(err error) bool {
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return fileErr.Kind() == FileNotFound
	}
	return false
}

// IsFileAccessDenied checks if the error is a file access denied error
func IsFileAccessDenied(err error) bool {
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return fileErr.Kind() == FileAccessDenied
	}
	return false
}

// IsUnsupportedFormat checks if the error reports a file that is not a game
func IsUnsupportedFormat(err error) bool {
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return fileErr.Kind() == UnsupportedFormat
	}
	return false
}

// IsInvalidConfig checks if the error is an invalid configuration error
func IsInvalidConfig(err error) bool {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Kind() == InvalidConfig
	}
	return false
}

// IsCancelled checks if the error is a silent user abort
func IsCancelled(err error) bool {
	return KindOf(err) == Cancelled
}

// IsOperationFailed checks if the error is a failed external operation
func IsOperationFailed(err error) bool {
	kind := KindOf(err)
	return kind == OperationFailed || kind == DeleteFailed
}

// IsDeleteFailed checks if the error is an abandoned file deletion
func IsDeleteFailed(err error) bool {
	return KindOf(err) == DeleteFailed
}
