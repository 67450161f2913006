// Package errors provides structured error handling for scanmap operations.
// It defines error codes, error types, and utilities for creating and
// inspecting errors raised during target resolution and scanning.
package errors

import (
	"fmt"
)

// ErrorCode represents different types of errors that can occur.
type ErrorCode string

const (
	// General errors.
	CodeUnknown       ErrorCode = "UNKNOWN"
	CodeValidation    ErrorCode = "VALIDATION"
	CodeConfiguration ErrorCode = "CONFIGURATION"
	CodeTimeout       ErrorCode = "TIMEOUT"

	// Target resolution errors.
	CodePortParse     ErrorCode = "PORT_PARSE"
	CodeRangeOrder    ErrorCode = "RANGE_ORDER"
	CodeTargetInvalid ErrorCode = "TARGET_INVALID"
	CodeDNSFailure    ErrorCode = "DNS_FAILURE"
	CodeFileRead      ErrorCode = "FILE_READ"
	CodeEmptyTargets  ErrorCode = "EMPTY_TARGETS"

	// Engine errors.
	CodeScanFailed ErrorCode = "SCAN_FAILED"
)

// ResolveError represents an error that occurred while turning user input
// into a concrete target list.
type ResolveError struct {
	Code  ErrorCode
	Msg   string
	Token string
	Cause error
}

// Error implements the error interface.
func (e *ResolveError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("[%s] %s (token: %s)", e.Code, e.Msg, e.Token)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Msg)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ResolveError) Unwrap() error {
	return e.Cause
}

// NewResolveError creates a new resolve error with the specified code and message.
func NewResolveError(code ErrorCode, msg string) *ResolveError {
	return &ResolveError{Code: code, Msg: msg}
}

// NewResolveErrorWithToken creates a resolve error naming the offending input token.
func NewResolveErrorWithToken(code ErrorCode, msg, token string) *ResolveError {
	return &ResolveError{Code: code, Msg: msg, Token: token}
}

// WrapResolveError wraps an existing error as a resolve error.
func WrapResolveError(code ErrorCode, msg string, err error) *ResolveError {
	return &ResolveError{Code: code, Msg: msg, Cause: err}
}

// WrapResolveErrorWithToken wraps an error with the offending input token.
func WrapResolveErrorWithToken(code ErrorCode, msg, token string, err error) *ResolveError {
	return &ResolveError{Code: code, Msg: msg, Token: token, Cause: err}
}

// ScanError represents an error raised by the scanning engine boundary.
type ScanError struct {
	Code   ErrorCode
	Msg    string
	Method string
	Cause  error
}

// Error implements the error interface.
func (e *ScanError) Error() string {
	if e.Method != "" {
		return fmt.Sprintf("[%s] %s (method: %s)", e.Code, e.Msg, e.Method)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Msg)
}

// Unwrap returns the underlying error.
func (e *ScanError) Unwrap() error {
	return e.Cause
}

// NewScanError creates a new scan error.
func NewScanError(code ErrorCode, msg string) *ScanError {
	return &ScanError{Code: code, Msg: msg}
}

// WrapScanError wraps an existing error as a scan error.
func WrapScanError(code ErrorCode, msg string, err error) *ScanError {
	return &ScanError{Code: code, Msg: msg, Cause: err}
}

// WrapScanErrorWithMethod wraps an error with the scan method that failed.
func WrapScanErrorWithMethod(code ErrorCode, msg, method string, err error) *ScanError {
	return &ScanError{Code: code, Msg: msg, Method: method, Cause: err}
}

// ConfigError represents configuration-related errors.
type ConfigError struct {
	Code  ErrorCode
	Msg   string
	Field string
	Cause error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s (field: %s)", e.Code, e.Msg, e.Field)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Msg)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// NewConfigError creates a new configuration error.
func NewConfigError(code ErrorCode, msg string) *ConfigError {
	return &ConfigError{Code: code, Msg: msg}
}

// NewConfigFieldError creates a configuration error for a specific field.
func NewConfigFieldError(code ErrorCode, msg, field string) *ConfigError {
	return &ConfigError{Code: code, Msg: msg, Field: field}
}

// Utility functions for common error operations

// IsCode checks if an error has a specific error code.
func IsCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// GetCode extracts the error code from an error if it has one.
func GetCode(err error) ErrorCode {
	switch e := err.(type) {
	case *ResolveError:
		return e.Code
	case *ScanError:
		return e.Code
	case *ConfigError:
		return e.Code
	}
	return CodeUnknown
}

// Common error creation functions

// ErrBadPortToken creates an error for a malformed port token.
func ErrBadPortToken(token string) *ResolveError {
	return NewResolveErrorWithToken(CodePortParse, "invalid port token", token)
}

// ErrPortRangeOrder creates an error for a port range whose start does not
// strictly precede its end.
func ErrPortRangeOrder(token string) *ResolveError {
	return NewResolveErrorWithToken(CodePortParse, "range start must be less than range end", token)
}

// ErrInvalidTarget creates an error for an unclassifiable address token.
func ErrInvalidTarget(token string) *ResolveError {
	return NewResolveErrorWithToken(CodeTargetInvalid, "token is not an address, subnet, range, or known domain", token)
}

// ErrRangeOrder creates an error for an address range whose start does not
// precede its end.
func ErrRangeOrder(token string) *ResolveError {
	return NewResolveErrorWithToken(CodeRangeOrder, "range start must precede end", token)
}

// ErrEmptyTargetSet creates an error for a resolution that produced no targets.
func ErrEmptyTargetSet() *ResolveError {
	return NewResolveError(CodeEmptyTargets, "resolution produced no targets")
}

// ErrDNSLookup wraps a DNS collaborator failure.
func ErrDNSLookup(name string, err error) *ResolveError {
	return WrapResolveErrorWithToken(CodeDNSFailure, "dns lookup failed", name, err)
}

// ErrTargetFile wraps a target file read failure.
func ErrTargetFile(path string, err error) *ResolveError {
	return WrapResolveErrorWithToken(CodeFileRead, "cannot read target file", path, err)
}
