package matcher

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEntity is wrapped by every EntityError.
	ErrInvalidEntity = errors.New("invalid entity")
	// ErrInvalidConfig is wrapped by every ConfigError.
	ErrInvalidConfig = errors.New("invalid matcher config")
)

// EntityError identifies the entity and field that failed validation.
type EntityError struct {
	ID     int
	Field  string
	Reason string
}

func (e *EntityError) Error() string {
	return fmt.Sprintf("entity %d: %s: %s", e.ID, e.Field, e.Reason)
}

func (e *EntityError) Unwrap() error { return ErrInvalidEntity }

// ConfigError names the configuration field that was rejected.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }
