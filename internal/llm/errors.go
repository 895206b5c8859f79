package llm

import "fmt"

// APICallError represents a failed call to the model provider.
type APICallError struct {
	Model   string
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("llm call to %s failed: %s: %v", e.Model, e.Message, e.Cause)
	}
	return fmt.Sprintf("llm call to %s failed: %s", e.Model, e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// ParseError represents a model response that could not be decoded.
type ParseError struct {
	Message  string
	Response string
	Cause    error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to parse llm response: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to parse llm response: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
