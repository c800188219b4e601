package model

import "strings"

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// ValidateUpdate checks an update request and returns the derived status.
// It returns a *ValidationError if any rules fail. The request's Name is
// trimmed in place so later stages see the canonical plate.
func ValidateUpdate(r *UpdateRequest) (Status, error) {
	var ve ValidationError

	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "name", Message: "is required"})
	}

	status, ok := r.ResolveStatus()
	if !ok {
		ve.Errors = append(ve.Errors, FieldError{Field: "status", Message: "invalid status"})
	}

	if ve.HasErrors() {
		return "", &ve
	}
	return status, nil
}
