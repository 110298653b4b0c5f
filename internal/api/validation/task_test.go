package validation_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portalhq/portal/internal/api/validation"
)

func strPtr(s string) *string { return &s }

func TestValidateCreateTaskRequest_Valid(t *testing.T) {
	errs := validation.ValidateCreateTaskRequest(validation.CreateTaskRequest{
		Title:      "Ship the release",
		Status:     "IN_PROGRESS",
		Deadline:   "2026-09-30",
		AssigneeID: uuid.New().String(),
	})
	assert.Empty(t, errs)
}

func TestValidateCreateTaskRequest_TitleRequired(t *testing.T) {
	errs := validation.ValidateCreateTaskRequest(validation.CreateTaskRequest{Title: "   "})
	require.Len(t, errs, 1)
	assert.Equal(t, "title", errs[0].Field)
}

func TestValidateCreateTaskRequest_TitleTooLong(t *testing.T) {
	errs := validation.ValidateCreateTaskRequest(validation.CreateTaskRequest{
		Title: strings.Repeat("x", 201),
	})
	require.Len(t, errs, 1)
	assert.Equal(t, "title", errs[0].Field)
}

func TestValidateCreateTaskRequest_UnknownStatus(t *testing.T) {
	errs := validation.ValidateCreateTaskRequest(validation.CreateTaskRequest{
		Title:  "Task",
		Status: "BLOCKED",
	})
	require.Len(t, errs, 1)
	assert.Equal(t, "status", errs[0].Field)
}

func TestValidateCreateTaskRequest_BadDeadline(t *testing.T) {
	errs := validation.ValidateCreateTaskRequest(validation.CreateTaskRequest{
		Title:    "Task",
		Deadline: "next tuesday",
	})
	require.Len(t, errs, 1)
	assert.Equal(t, "deadline", errs[0].Field)
}

func TestValidateCreateTaskRequest_BadAssigneeID(t *testing.T) {
	errs := validation.ValidateCreateTaskRequest(validation.CreateTaskRequest{
		Title:      "Task",
		AssigneeID: "not-a-uuid",
	})
	require.Len(t, errs, 1)
	assert.Equal(t, "assigneeId", errs[0].Field)
}

func TestValidateUpdateTaskRequest_AbsentFieldsPass(t *testing.T) {
	errs := validation.ValidateUpdateTaskRequest(validation.UpdateTaskRequest{})
	assert.Empty(t, errs)
}

func TestValidateUpdateTaskRequest_EmptyTitleRejected(t *testing.T) {
	errs := validation.ValidateUpdateTaskRequest(validation.UpdateTaskRequest{
		Title: strPtr(""),
	})
	require.Len(t, errs, 1)
	assert.Equal(t, "title", errs[0].Field)
}

func TestValidateUpdateTaskRequest_UnknownStatus(t *testing.T) {
	errs := validation.ValidateUpdateTaskRequest(validation.UpdateTaskRequest{
		Status: strPtr("SHIPPED"),
	})
	require.Len(t, errs, 1)
	assert.Equal(t, "status", errs[0].Field)
}

func TestValidateUpdateTaskRequest_EmptyStringsClearOptionalFields(t *testing.T) {
	errs := validation.ValidateUpdateTaskRequest(validation.UpdateTaskRequest{
		Deadline:   strPtr(""),
		AssigneeID: strPtr(""),
	})
	assert.Empty(t, errs, "empty strings clear the deadline and assignee, so they validate")
}
