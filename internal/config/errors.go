package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrNoConfigFile indicates that no configuration file path was
	// given, either directly or through the environment.
	ErrNoConfigFile = errors.New("no configuration file specified")

	// ErrNoFileLayer indicates a reload was requested before any
	// configuration file had been loaded.
	ErrNoFileLayer = errors.New("no configuration file loaded")
)

// LoadError represents a failure to read or decode a configuration
// file. The underlying cause (a missing file, an unsupported
// extension, a parse failure) is available through Unwrap.
type LoadError struct {
	// Path is the configuration file path that failed to load.
	Path string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("load config %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *LoadError) Unwrap() error {
	return e.Err
}
