package analysis

import "fmt"

// ValidationError represents a rejected analysis request. No scorer has run when it is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid request: '%s' %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid request: %s", e.Message)
}
