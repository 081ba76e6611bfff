package errors

import (
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// NotARepository indicates the working directory is not inside a git repository
	NotARepository ErrorCode = "NOT_A_REPOSITORY"
	// NoMatch indicates no branch matches the search pattern
	NoMatch ErrorCode = "NO_MATCH"
	// StaleAlias indicates an alias points at a branch that no longer exists
	StaleAlias ErrorCode = "STALE_ALIAS"
	// StalePrevious indicates the recorded previous branch no longer exists
	StalePrevious ErrorCode = "STALE_PREVIOUS"
	// NoPrevious indicates no previous branch has been recorded yet
	NoPrevious ErrorCode = "NO_PREVIOUS"
	// BranchVanished indicates the chosen branch disappeared before checkout
	BranchVanished ErrorCode = "BRANCH_VANISHED"
	// CheckoutFailed indicates git refused to switch branches
	CheckoutFailed ErrorCode = "CHECKOUT_FAILED"
	// StoreUnavailable indicates the usage database could not be opened or written
	StoreUnavailable ErrorCode = "STORE_UNAVAILABLE"
	// InvalidPattern indicates the search pattern failed validation
	InvalidPattern ErrorCode = "INVALID_PATTERN"
	// InvalidAlias indicates the alias name failed validation
	InvalidAlias ErrorCode = "INVALID_ALIAS"
	// InvalidBranchName indicates the branch name failed validation
	InvalidBranchName ErrorCode = "INVALID_BRANCH_NAME"
	// UserCancelled indicates the user aborted interactive selection
	UserCancelled ErrorCode = "USER_CANCELLED"
	// InternalError indicates an unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Command     string `json:"command,omitempty"`
	Safe        bool   `json:"safe,omitempty"`
	Description string `json:"description,omitempty"`
}

// GgoError represents a ggo failure with a stable code and suggestions
type GgoError struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error       // Underlying error (not exported to JSON)
}

// New creates a new GgoError with the suggested fixes registered for its code
func New(code ErrorCode, message string, cause error) *GgoError {
	return &GgoError{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: GetSuggestedFixes(code),
	}
}

// Error implements the error interface
func (e *GgoError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *GgoError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *GgoError) WithDetails(details interface{}) *GgoError {
	e.Details = details
	return e
}

// CodeOf returns the error code of err if it is a GgoError, or InternalError
func CodeOf(err error) ErrorCode {
	if ge, ok := err.(*GgoError); ok {
		return ge.Code
	}
	return InternalError
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	NotARepository: {
		{
			Command:     "git init",
			Safe:        false,
			Description: "Initialize a git repository here",
		},
	},
	NoMatch: {
		{
			Command:     "git branch",
			Safe:        true,
			Description: "List all local branches",
		},
		{
			Command:     "ggo --list \"\"",
			Safe:        true,
			Description: "List every branch with frecency scores",
		},
	},
	StaleAlias: {
		{
			Command:     "ggo alias --list",
			Safe:        true,
			Description: "Review aliases defined for this repository",
		},
	},
	StalePrevious: {
		{
			Command:     "git branch",
			Safe:        true,
			Description: "Check which branches still exist",
		},
	},
	BranchVanished: {
		{
			Command:     "git branch",
			Safe:        true,
			Description: "Refresh the branch list",
		},
	},
	CheckoutFailed: {
		{
			Command:     "git status",
			Safe:        true,
			Description: "Check for uncommitted changes blocking the switch",
		},
	},
	StoreUnavailable: {
		{
			Command:     "ggo cleanup --size",
			Safe:        true,
			Description: "Check the usage database location and size",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}
