package validation

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

var validStatuses = map[string]bool{
	"TODO":        true,
	"IN_PROGRESS": true,
	"REVIEW":      true,
	"DONE":        true,
}

// CreateTaskRequest mirrors the fields needed for create task validation.
type CreateTaskRequest struct {
	Title      string
	Status     string
	Deadline   string
	AssigneeID string
}

// ValidateCreateTaskRequest validates the fields of a create task request.
func ValidateCreateTaskRequest(req CreateTaskRequest) []FieldError {
	var errs []FieldError

	title := strings.TrimSpace(req.Title)
	if title == "" {
		errs = append(errs, FieldError{Field: "title", Message: "title is required"})
	} else if len(title) > 200 {
		errs = append(errs, FieldError{Field: "title", Message: "title must be at most 200 characters"})
	}

	if req.Status != "" && !validStatuses[req.Status] {
		errs = append(errs, FieldError{Field: "status", Message: "status must be one of TODO, IN_PROGRESS, REVIEW, DONE"})
	}

	errs = append(errs, validateOptionalDate("deadline", req.Deadline)...)
	errs = append(errs, validateOptionalUUID("assigneeId", req.AssigneeID)...)

	return errs
}

// UpdateTaskRequest mirrors the fields needed for update task validation.
// Nil pointers mean the field was absent from the request.
type UpdateTaskRequest struct {
	Title      *string
	Status     *string
	Deadline   *string
	AssigneeID *string
}

// ValidateUpdateTaskRequest validates the fields of an update task request.
func ValidateUpdateTaskRequest(req UpdateTaskRequest) []FieldError {
	var errs []FieldError

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			errs = append(errs, FieldError{Field: "title", Message: "title must not be empty"})
		} else if len(title) > 200 {
			errs = append(errs, FieldError{Field: "title", Message: "title must be at most 200 characters"})
		}
	}

	if req.Status != nil && !validStatuses[*req.Status] {
		errs = append(errs, FieldError{Field: "status", Message: "status must be one of TODO, IN_PROGRESS, REVIEW, DONE"})
	}

	if req.Deadline != nil && *req.Deadline != "" {
		errs = append(errs, validateOptionalDate("deadline", *req.Deadline)...)
	}

	if req.AssigneeID != nil && *req.AssigneeID != "" {
		errs = append(errs, validateOptionalUUID("assigneeId", *req.AssigneeID)...)
	}

	return errs
}

func validateOptionalDate(field, value string) []FieldError {
	if value == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return []FieldError{{Field: field, Message: field + " must be a date in YYYY-MM-DD format"}}
	}
	return nil
}

func validateOptionalUUID(field, value string) []FieldError {
	if value == "" {
		return nil
	}
	if _, err := uuid.Parse(value); err != nil {
		return []FieldError{{Field: field, Message: field + " must be a valid UUID"}}
	}
	return nil
}
