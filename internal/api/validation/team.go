package validation

import "strings"

// CreateTeamRequest mirrors the fields needed for create team validation.
type CreateTeamRequest struct {
	Name        string
	Description string
}

// ValidateCreateTeamRequest validates the fields of a create team request.
func ValidateCreateTeamRequest(req CreateTeamRequest) []FieldError {
	var errs []FieldError

	name := strings.TrimSpace(req.Name)
	if name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	} else if len(name) > 200 {
		errs = append(errs, FieldError{Field: "name", Message: "name must be at most 200 characters"})
	}

	return errs
}

// AddMemberRequest mirrors the fields needed for add member validation.
type AddMemberRequest struct {
	Username string
	Role     string
}

// ValidateAddMemberRequest validates the fields of an add member request.
func ValidateAddMemberRequest(req AddMemberRequest) []FieldError {
	var errs []FieldError

	if req.Username == "" {
		errs = append(errs, FieldError{Field: "username", Message: "username is required"})
	}

	errs = append(errs, validateRole(req.Role)...)

	return errs
}

// ChangeRoleRequest mirrors the fields needed for role change validation.
type ChangeRoleRequest struct {
	Role string
}

// ValidateChangeRoleRequest validates the fields of a role change request.
func ValidateChangeRoleRequest(req ChangeRoleRequest) []FieldError {
	return validateRole(req.Role)
}

func validateRole(role string) []FieldError {
	if role == "" {
		return []FieldError{{Field: "role", Message: "role is required"}}
	}
	if role != "OWNER" && role != "MEMBER" {
		return []FieldError{{Field: "role", Message: "role must be \"OWNER\" or \"MEMBER\""}}
	}
	return nil
}
