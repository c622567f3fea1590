package navigation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kioskware/kioskit/pkg/navigation"
)

func TestNormalizeConfig(t *testing.T) {
	t.Parallel()

	t.Run("missing type snaps", func(t *testing.T) {
		t.Parallel()
		got := navigation.NormalizeConfig(navigation.Config{}, nil)
		assert.Equal(t, navigation.Config{Type: navigation.TransitionSnap}, got)
	})

	t.Run("animated type without duration snaps", func(t *testing.T) {
		t.Parallel()
		got := navigation.NormalizeConfig(navigation.Config{Type: navigation.TransitionFade}, nil)
		assert.Equal(t, navigation.Config{Type: navigation.TransitionSnap}, got)
	})

	t.Run("animated type with duration is unchanged", func(t *testing.T) {
		t.Parallel()
		cfg := navigation.Config{Type: navigation.TransitionFade, Duration: 300 * time.Millisecond}
		assert.Equal(t, cfg, navigation.NormalizeConfig(cfg, nil))
	})

	t.Run("unknown type snaps", func(t *testing.T) {
		t.Parallel()
		got := navigation.NormalizeConfig(navigation.Config{Type: "teleport", Duration: time.Second}, nil)
		assert.Equal(t, navigation.Config{Type: navigation.TransitionSnap}, got)
	})

	t.Run("snap needs no duration", func(t *testing.T) {
		t.Parallel()
		cfg := navigation.Config{Type: navigation.TransitionSnap}
		assert.Equal(t, cfg, navigation.NormalizeConfig(cfg, nil))
	})

	t.Run("custom needs no duration", func(t *testing.T) {
		t.Parallel()
		cfg := navigation.Config{Type: navigation.TransitionCustom, CustomStyle: map[string]string{"opacity": "0"}}
		assert.Equal(t, cfg, navigation.NormalizeConfig(cfg, nil))
	})
}
