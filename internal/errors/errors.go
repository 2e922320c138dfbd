// Package errors provides error types and handling for cloudprep.
// It includes custom error types with process exit codes and error codes.
package errors

import (
	"errors"
	"fmt"

	"github.com/cloudprep/cloudprep/internal/constants"
)

// AppError represents an application error with an associated process exit code.
type AppError struct {
	// Code is an optional error code string for programmatic handling
	Code string
	// Message is a user-friendly error message
	Message string
	// Hint is a remediation hint shown to the operator
	Hint string
	// ExitCode is the process exit code to terminate with
	ExitCode int
	// Cause is the underlying error (for error wrapping)
	Cause error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error for error unwrapping.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is allows errors.Is to work with AppError.
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Code != "" && e.Code == t.Code
	}
	return false
}

// Predefined error codes.
const (
	ErrCodeMissingDependency        = "MISSING_DEPENDENCY"
	ErrCodeMissingVariable          = "MISSING_VARIABLE"
	ErrCodeAPIEnablementTimeout     = "API_ENABLEMENT_TIMEOUT"
	ErrCodePolicyEnforcementFailure = "POLICY_ENFORCEMENT_FAILURE"
	ErrCodeGrantFailure             = "GRANT_FAILURE"
)

// ErrMissingDependency reports a required external tool that is absent or
// unusable (exit code 3).
func ErrMissingDependency(name string, cause error) *AppError {
	return &AppError{
		Code:     ErrCodeMissingDependency,
		Message:  fmt.Sprintf("required executable %q not found", name),
		Hint:     fmt.Sprintf("install %s and make sure it is on your PATH", name),
		ExitCode: constants.ExitMissingDependency,
		Cause:    cause,
	}
}

// ErrMissingVariable reports a required configuration or environment value
// that is absent (exit code 2).
func ErrMissingVariable(name string, cause error) *AppError {
	return &AppError{
		Code:     ErrCodeMissingVariable,
		Message:  fmt.Sprintf("required variable %s is not set", name),
		Hint:     fmt.Sprintf("export %s before running %s", name, constants.ProjectName),
		ExitCode: constants.ExitMissingVariable,
		Cause:    cause,
	}
}

// ErrAPIEnablementTimeout reports an API that never showed up as enabled
// within the poll budget (exit code 1).
func ErrAPIEnablementTimeout(apiName string, attempts int) *AppError {
	return &AppError{
		Code:     ErrCodeAPIEnablementTimeout,
		Message:  fmt.Sprintf("API %s is not enabled after %d checks", apiName, attempts),
		Hint:     "the enable request was issued; re-run once the control plane catches up, or enable the API manually",
		ExitCode: constants.ExitEnforcementFailure,
	}
}

// ErrPolicyEnforcementFailure reports an org policy that could not be set and
// is not already satisfied (exit code 1).
func ErrPolicyEnforcementFailure(policyName string, cause error) *AppError {
	return &AppError{
		Code:     ErrCodePolicyEnforcementFailure,
		Message:  fmt.Sprintf("could not set org policy %s", policyName),
		Hint:     "contact your organization administrator to set this policy manually, then re-run",
		ExitCode: constants.ExitEnforcementFailure,
		Cause:    cause,
	}
}

// ErrGrantFailure reports a role-binding call that failed (exit code 1).
func ErrGrantFailure(role, principal string, cause error) *AppError {
	return &AppError{
		Code:     ErrCodeGrantFailure,
		Message:  fmt.Sprintf("could not grant %s to %s", role, principal),
		Hint:     "verify your credentials can administer IAM on this project, then re-run",
		ExitCode: constants.ExitEnforcementFailure,
		Cause:    cause,
	}
}

// GetExitCode extracts the process exit code from an error.
// Returns 1 if the error is not an AppError.
func GetExitCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.ExitCode
	}
	return constants.ExitEnforcementFailure
}

// GetErrorCode extracts the error code from an error.
// Returns empty string if the error is not an AppError.
func GetErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetHint extracts the remediation hint from an error.
// Returns empty string if the error carries none.
func GetHint(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Hint
	}
	return ""
}

// GetErrorMessage extracts a user-friendly message from an error.
func GetErrorMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
