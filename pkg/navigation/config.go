package navigation

import (
	"log/slog"
	"time"
)

// TransitionType names the animation applied when a page or view changes.
type TransitionType string

const (
	TransitionSlide  TransitionType = "slide"
	TransitionFade   TransitionType = "fade"
	TransitionScale  TransitionType = "scale"
	TransitionFlip   TransitionType = "flip"
	TransitionSnap   TransitionType = "snap"
	TransitionCustom TransitionType = "custom"
)

// Valid checks the type is one of the known transitions.
func (t TransitionType) Valid() bool {
	switch t {
	case TransitionSlide, TransitionFade, TransitionScale, TransitionFlip,
		TransitionSnap, TransitionCustom:
		return true
	}
	return false
}

// Config describes one transition. Snap transitions apply their final state
// immediately; custom transitions apply CustomStyle properties and wait for
// the element's transition-finished signal (bounded by the fallback timer).
type Config struct {
	Type        TransitionType
	Direction   string
	Duration    time.Duration
	Easing      string
	CustomStyle map[string]string
}

// NormalizeConfig enforces the transition invariant: a config missing a
// type, carrying an unknown type, or carrying an animated type without a
// positive duration is replaced wholesale with a snap transition. The
// downgrade is reported at warning level, never as an error.
func NormalizeConfig(cfg Config, logger *slog.Logger) Config {
	if logger == nil {
		logger = slog.Default()
	}

	switch {
	case cfg.Type == "":
		logger.Warn("transition config missing type, snapping", "config", cfg)
	case !cfg.Type.Valid():
		logger.Warn("unknown transition type, snapping", "type", cfg.Type)
	case cfg.Type != TransitionSnap && cfg.Type != TransitionCustom && cfg.Duration <= 0:
		logger.Warn("animated transition without positive duration, snapping", "type", cfg.Type)
	default:
		return cfg
	}
	return Config{Type: TransitionSnap}
}
