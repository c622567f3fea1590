package config

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Settings carries the tunable timings of the coordination core. Defaults
// match the values the components fall back to on their own, so an empty
// environment is always valid.
type Settings struct {
	// TickInterval is the orchestrator's dispatch cadence.
	TickInterval time.Duration `env:"KIOSK_TICK_INTERVAL" envDefault:"16ms"`
	// IdleTimeout is the silence period before idle activation.
	IdleTimeout time.Duration `env:"KIOSK_IDLE_TIMEOUT" envDefault:"90s"`
	// MaintenanceEvery is the maintenance check cadence while idle-active.
	MaintenanceEvery time.Duration `env:"KIOSK_MAINTENANCE_EVERY" envDefault:"10m"`
	// GestureCornerRadius is the side length of the gesture corner zones.
	GestureCornerRadius float64 `env:"KIOSK_GESTURE_RADIUS" envDefault:"120"`
	// GestureStepTimeout is the maximum gap between gesture steps.
	GestureStepTimeout time.Duration `env:"KIOSK_GESTURE_STEP_TIMEOUT" envDefault:"3s"`
	// DebounceWindow filters duplicate pointer events of one touch.
	DebounceWindow time.Duration `env:"KIOSK_DEBOUNCE_WINDOW" envDefault:"50ms"`
}

var dotenvOnce sync.Once

// Load populates v from the process environment, bootstrapping a .env file
// on first use. A missing .env file is not an error.
func Load[T any](v *T) error {
	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})
	if v == nil {
		return ErrNilPointer
	}
	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsing, err)
	}
	return nil
}

// MustLoad works like Load but panics on failure. Intended for settings the
// process cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
}
