package service

import "strings"

// ValidationError reports malformed or missing input fields; it maps to a 400
// at the transport layer.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}
