package domain

import "fmt"

// Error codes for domain errors
const (
	ErrCodeConfig = "CONFIG_ERROR"
	ErrCodeInput  = "INPUT_ERROR"
	ErrCodeOutput = "OUTPUT_ERROR"
)

// DomainError is the error type used across the module
type DomainError struct {
	// Code is a stable machine-readable error code
	Code string

	// Message is the human-readable description
	Message string

	// Cause is the underlying error, if any
	Cause error
}

// Error implements the error interface
func (e DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e DomainError) Unwrap() error {
	return e.Cause
}

// NewDomainError creates a DomainError with an arbitrary code
func NewDomainError(code, message string, cause error) error {
	return DomainError{Code: code, Message: message, Cause: cause}
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) error {
	return DomainError{Code: ErrCodeConfig, Message: message, Cause: cause}
}

// NewInputError creates an invalid-input error
func NewInputError(message string, cause error) error {
	return DomainError{Code: ErrCodeInput, Message: message, Cause: cause}
}

// NewOutputError creates an output/serialization error
func NewOutputError(message string, cause error) error {
	return DomainError{Code: ErrCodeOutput, Message: message, Cause: cause}
}
