package entity

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// Run errors
	ErrRunNotFound      = errors.New("proposal run not found")
	ErrRunNotFinished   = errors.New("proposal run is not finished")
	ErrRunFailed        = errors.New("proposal run failed")
	ErrNoResult         = errors.New("proposal result not available")
	ErrInvalidRunStatus = errors.New("invalid run status")

	// File errors
	ErrInvalidFile      = errors.New("invalid file")
	ErrFileTooLarge     = errors.New("file too large")
	ErrInvalidExtension = errors.New("invalid file extension")
	ErrInvalidPDF       = errors.New("file is not a valid PDF document")
	ErrEmptyDocument    = errors.New("no readable content found in document")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// WorkflowError wraps the failure of a single workflow stage. The pipeline has
// no retry or resume semantics, so the first failing stage aborts the whole run.
type WorkflowError struct {
	Stage WorkflowStage
	Err   error
}

func (e *WorkflowError) Error() string {
	return fmt.Sprintf("proposal workflow failed at stage %q: %v", e.Stage, e.Err)
}

func (e *WorkflowError) Unwrap() error {
	return e.Err
}

// ProjectAnalysisError wraps a failure of the project-context aggregation that
// was not absorbed by one of its designed fallbacks.
type ProjectAnalysisError struct {
	Err error
}

func (e *ProjectAnalysisError) Error() string {
	return fmt.Sprintf("project analysis failed: %v", e.Err)
}

func (e *ProjectAnalysisError) Unwrap() error {
	return e.Err
}
