package launcher

import (
	"errors"
	"fmt"
)

// ErrNoSpecLoader is returned (wrapped in a SpecLoadError) when an
// instance names an artifact no loader was registered for.
var ErrNoSpecLoader = errors.New("launcher: no spec loader registered for artifact")

// SpecLoadError is the single error kind a spec loader surfaces to the
// host launcher. Every failure source — unresolvable schema, unknown
// network, malformed key material, missing configuration fields,
// serialization — collapses into it, with the original cause retained
// for diagnostics.
type SpecLoadError struct {
	Artifact string
	Err      error
}

// Error implements the error interface.
func (e *SpecLoadError) Error() string {
	return fmt.Sprintf("load spec for artifact %q: %v", e.Artifact, e.Err)
}

// Unwrap implements the errors.Unwrap interface for error chaining.
func (e *SpecLoadError) Unwrap() error {
	return e.Err
}

// WrapSpecLoadError wraps an error with the artifact it occurred for.
// Returns nil if the provided error is nil; an error that is already a
// *SpecLoadError for the same artifact is returned unchanged.
func WrapSpecLoadError(artifact string, err error) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*SpecLoadError); ok && e.Artifact == artifact {
		return err
	}
	return &SpecLoadError{Artifact: artifact, Err: err}
}
