package model

import (
	"errors"
	"fmt"
)

// Error codes shared by every layer
const (
	CodeNotFound               = "NOT_FOUND"
	CodeValidation             = "VALIDATION"
	CodeStorage                = "STORAGE"
	CodeMissingRecurrenceState = "MISSING_RECURRENCE_STATE"
	CodeDuplicateCompletion    = "DUPLICATE_COMPLETION"
)

// DomainError represents domain-specific errors
type DomainError struct {
	Code    string
	Message string
	Details map[string]interface{}
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap exposes the wrapped cause (storage errors)
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewNotFound reports a required lookup that missed
func NewNotFound(entityKind string, id string) *DomainError {
	return &DomainError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found: %s", entityKind, id),
		Details: map[string]interface{}{"kind": entityKind, "id": id},
	}
}

// NewValidation reports structurally invalid input
func NewValidation(reason string) *DomainError {
	return &DomainError{
		Code:    CodeValidation,
		Message: reason,
	}
}

// NewStorage wraps a persistence failure
func NewStorage(op string, cause error) *DomainError {
	return &DomainError{
		Code:    CodeStorage,
		Message: op,
		Err:     cause,
	}
}

// NewMissingRecurrenceState reports a rollover task without its pointer or rule
func NewMissingRecurrenceState(taskID TaskID, missing string) *DomainError {
	return &DomainError{
		Code:    CodeMissingRecurrenceState,
		Message: fmt.Sprintf("rollover task %s has no %s", taskID, missing),
		Details: map[string]interface{}{"taskId": string(taskID), "missing": missing},
	}
}

// NewDuplicateCompletion is raised by stores when (taskId, occurrenceKey) already exists
func NewDuplicateCompletion(taskID TaskID, occurrenceKey OccurrenceKey) *DomainError {
	return &DomainError{
		Code:    CodeDuplicateCompletion,
		Message: fmt.Sprintf("task %s already completed for occurrence %s", taskID, occurrenceKey),
		Details: map[string]interface{}{"taskId": string(taskID), "occurrenceKey": string(occurrenceKey)},
	}
}

func hasCode(err error, code string) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == code
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	return hasCode(err, CodeNotFound)
}

// IsValidation checks if the error is a validation error
func IsValidation(err error) bool {
	return hasCode(err, CodeValidation)
}

// IsStorage checks if the error is a storage error
func IsStorage(err error) bool {
	return hasCode(err, CodeStorage)
}

// IsMissingRecurrenceState checks if the error is a missing recurrence state error
func IsMissingRecurrenceState(err error) bool {
	return hasCode(err, CodeMissingRecurrenceState)
}

// IsDuplicateCompletion checks if the error is a duplicate completion error
func IsDuplicateCompletion(err error) bool {
	return hasCode(err, CodeDuplicateCompletion)
}
