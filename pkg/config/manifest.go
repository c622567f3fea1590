package config

import (
	"errors"
	"log/slog"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kioskware/kioskit/pkg/navigation"
)

// SurfaceDecl declares one registrable page or view. Transition optionally
// names a preset from the manifest's transitions map to use as that
// surface's default.
type SurfaceDecl struct {
	ID         string `yaml:"id"`
	Transition string `yaml:"transition,omitempty"`
}

// Duration accepts Go duration strings ("300ms") in YAML, which the plain
// time.Duration decoder does not.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return errors.Join(ErrInvalidManifest, err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return errors.Join(ErrInvalidManifest, err)
	}
	*d = Duration(parsed)
	return nil
}

// TransitionDecl is a named transition preset.
type TransitionDecl struct {
	Type      string            `yaml:"type"`
	Direction string            `yaml:"direction,omitempty"`
	Duration  Duration          `yaml:"duration,omitempty"`
	Easing    string            `yaml:"easing,omitempty"`
	Style     map[string]string `yaml:"style,omitempty"`
}

// Config converts the preset into a normalized transition config. Invalid
// declarations degrade to snap rather than failing, mirroring the
// coordinator's own handling.
func (d TransitionDecl) Config(logger *slog.Logger) navigation.Config {
	return navigation.NormalizeConfig(navigation.Config{
		Type:        navigation.TransitionType(d.Type),
		Direction:   d.Direction,
		Duration:    time.Duration(d.Duration),
		Easing:      d.Easing,
		CustomStyle: d.Style,
	}, logger)
}

// Manifest is the declarative surface registry a host feeds into the
// navigation coordinator at startup.
type Manifest struct {
	Pages       []SurfaceDecl             `yaml:"pages"`
	Views       []SurfaceDecl             `yaml:"views"`
	Transitions map[string]TransitionDecl `yaml:"transitions,omitempty"`
}

// ParseManifest decodes and validates a YAML manifest.
func ParseManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, errors.Join(ErrInvalidManifest, err)
	}
	if err := m.Validate(); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

// Validate checks the registration invariants the coordinator will enforce
// anyway, so a broken manifest fails before any surface is registered.
func (m Manifest) Validate() error {
	if err := validateSurfaces("page", m.Pages, m.Transitions); err != nil {
		return err
	}
	return validateSurfaces("view", m.Views, m.Transitions)
}

// TransitionFor resolves a surface's preset, falling back to snap when the
// surface names none.
func (m Manifest) TransitionFor(s SurfaceDecl, logger *slog.Logger) navigation.Config {
	if s.Transition == "" {
		return navigation.Config{Type: navigation.TransitionSnap}
	}
	return m.Transitions[s.Transition].Config(logger)
}

func validateSurfaces(kind string, surfaces []SurfaceDecl, presets map[string]TransitionDecl) error {
	seen := make(map[string]struct{}, len(surfaces))
	for _, s := range surfaces {
		if s.ID == "" {
			return ErrEmptyID
		}
		if _, dup := seen[s.ID]; dup {
			return ErrDuplicateID{Kind: kind, ID: s.ID}
		}
		seen[s.ID] = struct{}{}
		if s.Transition != "" {
			if _, ok := presets[s.Transition]; !ok {
				return ErrUnknownTransition{SurfaceID: s.ID, Name: s.Transition}
			}
		}
	}
	return nil
}
