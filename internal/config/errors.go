package config

import "fmt"

// ConfigError represents an error loading or validating configuration.
type ConfigError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ConfigError) Error() string {
	msg := "config error: " + e.Message
	if e.Field != "" {
		msg = fmt.Sprintf("config error: '%s' %s", e.Field, e.Message)
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}
