package generator

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure cases.
var (
	// ErrGenerationFailed indicates a single artifact failed to render.
	ErrGenerationFailed = errors.New("fluid-gen: generation failed")
	// ErrWriteFailed indicates a single artifact failed to write.
	ErrWriteFailed = errors.New("fluid-gen: write failed")
	// ErrOutputCollision indicates two artifacts planned the same path.
	ErrOutputCollision = errors.New("fluid-gen: output collision")
)

// GenerationError is an isolated rendering failure: one route or model
// could not be rendered. The batch replaces it with a placeholder artifact
// and continues.
type GenerationError struct {
	Item    string // route or model identity
	File    string // originating source file
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	msg := fmt.Sprintf("fluid-gen: generation error for %s", e.Item)
	if e.File != "" {
		msg += " (file: " + e.File + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error { return e.Cause }

// Is reports whether the target matches the sentinel error.
func (e *GenerationError) Is(target error) bool { return target == ErrGenerationFailed }

// IOError is an isolated write failure; other artifacts still complete.
type IOError struct {
	Path  string
	Cause error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	return fmt.Sprintf("fluid-gen: write error for %s: %v", e.Path, e.Cause)
}

// Unwrap returns the underlying error.
func (e *IOError) Unwrap() error { return e.Cause }

// Is reports whether the target matches the sentinel error.
func (e *IOError) Is(target error) bool { return target == ErrWriteFailed }

// CollisionError is fatal: the mirror and co-locate plans (or two source
// files) would write the same output path.
type CollisionError struct {
	Path    string
	Sources []string
}

// Error implements the error interface.
func (e *CollisionError) Error() string {
	return fmt.Sprintf("fluid-gen: output collision at %s (sources: %v)", e.Path, e.Sources)
}

// Is reports whether the target matches the sentinel error.
func (e *CollisionError) Is(target error) bool { return target == ErrOutputCollision }
