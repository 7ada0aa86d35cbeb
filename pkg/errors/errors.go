// Package errors defines typed service errors shared across the application
// layers, with predicate helpers for classification at the API boundary.
package errors

import (
	"errors"
	"fmt"
)

// ResourceNotFoundError indicates a requested entity does not exist.
type ResourceNotFoundError struct {
	Resource string
	ID       string
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func NewKillmailNotFoundError(id int64) *ResourceNotFoundError {
	return &ResourceNotFoundError{Resource: "killmail", ID: fmt.Sprintf("%d", id)}
}

func NewReportNotFoundError(subjectID int64, kind string) *ResourceNotFoundError {
	return &ResourceNotFoundError{Resource: "report", ID: fmt.Sprintf("%s/%d", kind, subjectID)}
}

// IsResourceNotFoundError reports whether err is a ResourceNotFoundError.
func IsResourceNotFoundError(err error) bool {
	var notFound *ResourceNotFoundError
	return errors.As(err, &notFound)
}

// NoActivityError indicates an analysis subject has no recorded killmail
// activity to score.
type NoActivityError struct {
	SubjectID int64
}

func (e *NoActivityError) Error() string {
	return fmt.Sprintf("no killmail activity recorded for subject %d", e.SubjectID)
}

func IsNoActivityError(err error) bool {
	var noActivity *NoActivityError
	return errors.As(err, &noActivity)
}
