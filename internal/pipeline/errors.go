package pipeline

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrInvalidConfiguration  = errors.New("invalid configuration")
	ErrEmptyVocabularyResult = errors.New("no word of the sentence is in the vocabulary")
	ErrStageNotReady         = errors.New("stage not ready")
	ErrStageNotCompleted     = errors.New("stage not completed")
	ErrPipelineComplete      = errors.New("pipeline already complete")
	ErrUnknownStage          = errors.New("unknown stage")
)

// ConfigError names the configuration field that was rejected.
type ConfigError struct {
	Field  string // Config field (e.g., "dModel", "numHeads")
	Reason string // Human-readable explanation
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidConfiguration, e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidConfiguration.
func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfiguration
}

// notReady reports a missing prerequisite for stage s.
func notReady(s, missing Stage) error {
	return fmt.Errorf("%w: %s needs the output of %s", ErrStageNotReady, s, missing)
}
