package validation

import "strings"

// CreateCommentRequest mirrors the fields needed for create comment validation.
type CreateCommentRequest struct {
	Content  string
	ParentID string
}

// ValidateCreateCommentRequest validates the fields of a create comment request.
func ValidateCreateCommentRequest(req CreateCommentRequest) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(req.Content) == "" {
		errs = append(errs, FieldError{Field: "content", Message: "content is required"})
	}

	errs = append(errs, validateOptionalUUID("parentId", req.ParentID)...)

	return errs
}
