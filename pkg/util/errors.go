// Package util provides utility functions and common error types.
package util

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the failure classes an invocation can end in
var (
	ErrConfig           = errors.New("invalid configuration")
	ErrNotConnected     = errors.New("not connected to controller")
	ErrNotFound         = errors.New("resource not found")
	ErrUnsupported      = errors.New("not supported")
	ErrValidationFailed = errors.New("validation failed")
	ErrPermissionDenied = errors.New("permission denied")
	ErrRemote           = errors.New("controller request failed")
)

// ConfigError is a problem with the invocation itself, detected before any
// network activity (bad credentials shape, unknown command).
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return e.Reason
}

func (e *ConfigError) Unwrap() error {
	return ErrConfig
}

// NewConfigError creates a configuration error
func NewConfigError(format string, args ...interface{}) *ConfigError {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// ConnectionError reports a failed controller handshake
type ConnectionError struct {
	Address string
	Err     error
}

func (e *ConnectionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("connecting to %s failed", e.Address)
	}
	return fmt.Sprintf("connecting to %s: %v", e.Address, e.Err)
}

func (e *ConnectionError) Unwrap() []error {
	return []error{ErrNotConnected, e.Err}
}

// NewConnectionError creates a connection error
func NewConnectionError(address string, err error) *ConnectionError {
	return &ConnectionError{Address: address, Err: err}
}

// NotFoundError reports the first level of a named path that did not resolve.
// Level is the human label of the missing object ("Fabric", "VRF").
type NotFoundError struct {
	Level string
	Name  string
}

func (e *NotFoundError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s not found", e.Level)
	}
	return fmt.Sprintf("%s '%s' not found", e.Level, e.Name)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewNotFoundError creates a not-found error
func NewNotFoundError(level, name string) *NotFoundError {
	return &NotFoundError{Level: level, Name: name}
}

// UnsupportedError reports a verb or discriminator value the object type
// does not accept. What is the category label ("Operation", "Type",
// "Route Policy type").
type UnsupportedError struct {
	What  string
	Value string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s '%s' not supported", e.What, e.Value)
}

func (e *UnsupportedError) Unwrap() error {
	return ErrUnsupported
}

// NewUnsupportedError creates an unsupported error
func NewUnsupportedError(what, value string) *UnsupportedError {
	return &UnsupportedError{What: what, Value: value}
}

// RemoteError carries a failure reported by the controller for a request.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
}

func (e *RemoteError) Unwrap() error {
	return ErrRemote
}

// NewRemoteError creates a remote error
func NewRemoteError(status int, message string) *RemoteError {
	return &RemoteError{Status: status, Message: message}
}

// ValidationError represents one or more validation failures
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return "validation failed: " + e.Errors[0]
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// NewValidationError creates a validation error from messages
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Errors: messages}
}

// ValidationBuilder helps accumulate validation errors
type ValidationBuilder struct {
	errors []string
}

// Add adds an error message if condition is false
func (v *ValidationBuilder) Add(condition bool, message string) *ValidationBuilder {
	if !condition {
		v.errors = append(v.errors, message)
	}
	return v
}

// AddError adds an error message unconditionally
func (v *ValidationBuilder) AddError(message string) *ValidationBuilder {
	v.errors = append(v.errors, message)
	return v
}

// AddErrorf adds a formatted error message
func (v *ValidationBuilder) AddErrorf(format string, args ...interface{}) *ValidationBuilder {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
	return v
}

// HasErrors returns true if there are validation errors
func (v *ValidationBuilder) HasErrors() bool {
	return len(v.errors) > 0
}

// Build returns the validation error or nil if no errors
func (v *ValidationBuilder) Build() error {
	if len(v.errors) == 0 {
		return nil
	}
	return &ValidationError{Errors: v.errors}
}
