package config

import (
	"errors"
	"fmt"
)

var (
	// ErrNilPointer is returned when a nil pointer is passed to Load.
	ErrNilPointer = errors.New("config: nil pointer")
	// ErrParsing is returned when environment variables cannot be parsed
	// into the settings struct.
	ErrParsing = errors.New("config: failed to parse environment")
	// ErrInvalidManifest is returned when a manifest fails YAML decoding.
	ErrInvalidManifest = errors.New("config: invalid manifest")
	// ErrEmptyID is returned when a manifest surface has no id.
	ErrEmptyID = errors.New("config: manifest surface requires an id")
)

// ErrDuplicateID reports two manifest surfaces of the same kind sharing an
// id.
type ErrDuplicateID struct {
	Kind string // "page" or "view"
	ID   string
}

func (e ErrDuplicateID) Error() string {
	return fmt.Sprintf("config: duplicate %s id %q", e.Kind, e.ID)
}

// ErrUnknownTransition reports a surface referencing a transition preset
// the manifest does not define.
type ErrUnknownTransition struct {
	SurfaceID string
	Name      string
}

func (e ErrUnknownTransition) Error() string {
	return fmt.Sprintf("config: surface %q references unknown transition %q", e.SurfaceID, e.Name)
}
