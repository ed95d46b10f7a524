package bot

import (
	"errors"
	"fmt"
)

// ErrStopped is returned by setup when Stop ran before setup finished.
var ErrStopped = errors.New("bot stopped")

// ResolutionError reports a configured guild or channel that could not be
// found at startup.
type ResolutionError struct {
	Kind string
	Name string
	ID   string
}

func (e *ResolutionError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s %q (%s) not found", e.Kind, e.Name, e.ID)
	}
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// ModuleLoadError reports a module that failed to build or whose startup
// hook failed. It is logged, never returned by the loader.
type ModuleLoadError struct {
	Module string
	Stage  string
	Err    error
}

func (e *ModuleLoadError) Error() string {
	return fmt.Sprintf("module %s %s: %v", e.Module, e.Stage, e.Err)
}

func (e *ModuleLoadError) Unwrap() error {
	return e.Err
}

// RegistrationError reports a failed bulk command or permission update.
type RegistrationError struct {
	Stage string
	Err   error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("registering %s: %v", e.Stage, e.Err)
}

func (e *RegistrationError) Unwrap() error {
	return e.Err
}
