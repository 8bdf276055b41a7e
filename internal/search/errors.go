package search

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownEngine is returned when a name has no registered factory.
	ErrUnknownEngine = errors.New("unknown search engine")

	// ErrDuplicateEngine is returned when registering an already taken name
	// without requesting an override.
	ErrDuplicateEngine = errors.New("search engine already registered")

	// ErrInvalidConfig is returned when an engine configuration does not
	// satisfy its registered schema.
	ErrInvalidConfig = errors.New("invalid engine configuration")

	// ErrEngineTimeout marks an engine call that did not complete before
	// the shared deadline.
	ErrEngineTimeout = errors.New("engine timed out")

	// ErrNoEngines is returned when a search is attempted with no engine
	// enabled at all.
	ErrNoEngines = errors.New("no search engines enabled")
)

// ConfigError describes why an engine configuration was rejected.
type ConfigError struct {
	Engine string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("engine %s: %s", e.Engine, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

// EngineError wraps a failure from a single engine call.
type EngineError struct {
	Engine string
	Err    error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("engine %s: %v", e.Engine, e.Err)
}

func (e *EngineError) Unwrap() error { return e.Err }

// PartialFailureError is returned in fail-fast mode when at least one engine
// failed or timed out. Results from engines that did complete are discarded.
type PartialFailureError struct {
	Failed []*EngineError
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("search aborted, %d engine(s) failed: %s", len(e.Failed), joinEngineErrors(e.Failed))
}

// FailedEngines lists the names of the engines that failed.
func (e *PartialFailureError) FailedEngines() []string {
	names := make([]string, len(e.Failed))
	for i, f := range e.Failed {
		names[i] = f.Engine
	}
	return names
}

// AllEnginesFailedError is returned in fail-silent mode when not a single
// engine produced a result.
type AllEnginesFailedError struct {
	Causes []*EngineError
}

func (e *AllEnginesFailedError) Error() string {
	return fmt.Sprintf("all %d engine(s) failed: %s", len(e.Causes), joinEngineErrors(e.Causes))
}

func joinEngineErrors(errs []*EngineError) string {
	parts := make([]string, len(errs))
	for i, err := range errs {
		parts[i] = err.Error()
	}
	return strings.Join(parts, "; ")
}
