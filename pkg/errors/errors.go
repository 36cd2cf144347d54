// Copyright (c) 2026, the sitemirror authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a structured error classification.
type ErrorCode string

const (
	// ErrCodeInventory indicates the inventory system could not be queried.
	ErrCodeInventory ErrorCode = "INVENTORY"
	// ErrCodeSiteNotFound indicates the requested site does not exist in the inventory.
	ErrCodeSiteNotFound ErrorCode = "SITE_NOT_FOUND"
	// ErrCodeUnreachable indicates a device could not be reached over its
	// management address (dial, auth, or timeout failure).
	ErrCodeUnreachable ErrorCode = "DEVICE_UNREACHABLE"
	// ErrCodePartialData indicates a session opened but a fetch failed
	// mid-retrieval. Callers treat it the same as ErrCodeUnreachable.
	ErrCodePartialData ErrorCode = "PARTIAL_DATA"
	// ErrCodeToolingMissing indicates the emulation tool binary is not installed.
	ErrCodeToolingMissing ErrorCode = "TOOLING_MISSING"
	// ErrCodeToolingFailed indicates the emulation tool ran and exited non-zero.
	// The tool's combined output is preserved in the error context.
	ErrCodeToolingFailed ErrorCode = "TOOLING_FAILED"
	// ErrCodeInvalidRequest indicates malformed or invalid input.
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	// ErrCodeInternal indicates an internal system error.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// StructuredError provides structured error information for better observability.
// It includes an error code for programmatic handling, a human-readable message,
// the underlying cause, and optional context for debugging.
type StructuredError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is and errors.As support.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// New creates a new StructuredError with the given code and message.
func New(code ErrorCode, message string) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
	}
}

// NewWithContext creates a new StructuredError with context information.
func NewWithContext(code ErrorCode, message string, context map[string]any) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Context: context,
	}
}

// Wrap wraps an existing error with additional context.
func Wrap(code ErrorCode, message string, cause error) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapWithContext wraps an error with additional context information.
func WrapWithContext(code ErrorCode, message string, cause error, context map[string]any) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Cause:   cause,
		Context: context,
	}
}

// HasCode reports whether err or any error in its chain is a StructuredError
// with the given code.
func HasCode(err error, code ErrorCode) bool {
	var se *StructuredError
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}
