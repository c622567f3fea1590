package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kioskware/kioskit/pkg/config"
	"github.com/kioskware/kioskit/pkg/navigation"
)

const sampleManifest = `
pages:
  - id: home
  - id: catalog
    transition: slide-left
views:
  - id: menu
  - id: screensaver
    transition: fade
transitions:
  slide-left:
    type: slide
    direction: left
    duration: 300ms
  fade:
    type: fade
    duration: 500ms
    easing: ease-in-out
`

func TestParseManifest(t *testing.T) {
	t.Parallel()

	m, err := config.ParseManifest([]byte(sampleManifest))
	require.NoError(t, err)

	require.Len(t, m.Pages, 2)
	require.Len(t, m.Views, 2)
	assert.Equal(t, "home", m.Pages[0].ID)
	assert.Equal(t, "slide-left", m.Pages[1].Transition)

	slide := m.Transitions["slide-left"]
	assert.Equal(t, "slide", slide.Type)
	assert.Equal(t, config.Duration(300*time.Millisecond), slide.Duration)
}

func TestParseManifest_InvalidYAML(t *testing.T) {
	t.Parallel()

	_, err := config.ParseManifest([]byte("pages: {not: [a, list"))
	require.ErrorIs(t, err, config.ErrInvalidManifest)
}

func TestParseManifest_BadDuration(t *testing.T) {
	t.Parallel()

	_, err := config.ParseManifest([]byte("transitions:\n  t:\n    type: fade\n    duration: fast\n"))
	require.ErrorIs(t, err, config.ErrInvalidManifest)
}

func TestManifest_Validate(t *testing.T) {
	t.Parallel()

	t.Run("empty id", func(t *testing.T) {
		t.Parallel()
		_, err := config.ParseManifest([]byte("pages:\n  - id: \"\"\n"))
		require.ErrorIs(t, err, config.ErrEmptyID)
	})

	t.Run("duplicate id", func(t *testing.T) {
		t.Parallel()
		_, err := config.ParseManifest([]byte("views:\n  - id: menu\n  - id: menu\n"))
		var dup config.ErrDuplicateID
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "view", dup.Kind)
		assert.Equal(t, "menu", dup.ID)
	})

	t.Run("unknown transition", func(t *testing.T) {
		t.Parallel()
		_, err := config.ParseManifest([]byte("pages:\n  - id: home\n    transition: warp\n"))
		var unknown config.ErrUnknownTransition
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, "home", unknown.SurfaceID)
		assert.Equal(t, "warp", unknown.Name)
	})
}

func TestTransitionDecl_Config(t *testing.T) {
	t.Parallel()

	decl := config.TransitionDecl{Type: "slide", Direction: "left", Duration: config.Duration(300 * time.Millisecond)}
	cfg := decl.Config(nil)
	assert.Equal(t, navigation.TransitionSlide, cfg.Type)
	assert.Equal(t, "left", cfg.Direction)
	assert.Equal(t, 300*time.Millisecond, cfg.Duration)

	// Animated type without duration degrades to snap.
	cfg = config.TransitionDecl{Type: "fade"}.Config(nil)
	assert.Equal(t, navigation.TransitionSnap, cfg.Type)
}

func TestManifest_TransitionFor(t *testing.T) {
	t.Parallel()

	m, err := config.ParseManifest([]byte(sampleManifest))
	require.NoError(t, err)

	cfg := m.TransitionFor(m.Pages[1], nil)
	assert.Equal(t, navigation.TransitionSlide, cfg.Type)

	cfg = m.TransitionFor(m.Pages[0], nil)
	assert.Equal(t, navigation.TransitionSnap, cfg.Type, "surface without a preset snaps")
}
