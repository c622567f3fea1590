package activation_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kioskware/kioskit/pkg/activation"
	"github.com/kioskware/kioskit/pkg/bus"
	"github.com/kioskware/kioskit/pkg/navigation"
	"github.com/kioskware/kioskit/pkg/statestore"
)

type fakeNavigator struct {
	current string
	err     error
	visited []string
}

func (n *fakeNavigator) CurrentViewID() string { return n.current }

func (n *fakeNavigator) TransitionView(viewID string, cfg navigation.Config) error {
	if n.err != nil {
		return n.err
	}
	n.current = viewID
	n.visited = append(n.visited, viewID)
	return nil
}

func newProtocol(t *testing.T, nav *fakeNavigator, behavior activation.ExitBehavior) (*activation.Protocol, *statestore.Store, *bus.Channel) {
	t.Helper()
	store := statestore.New()
	ch := bus.New("idle-activation")
	proto := activation.NewProtocol(activation.Params{
		Navigator:      nav,
		Store:          store,
		Channel:        ch,
		StoreKey:       "idle.isActive",
		ViewID:         "screensaver",
		StartingViewID: "attract",
		ExitBehavior:   behavior,
		Transition:     navigation.Config{Type: navigation.TransitionSnap},
	})
	return proto, store, ch
}

func TestProtocol_ActivateCapturesPreviousView(t *testing.T) {
	t.Parallel()

	nav := &fakeNavigator{current: "menu"}
	proto, store, ch := newProtocol(t, nav, activation.ExitReturn)

	var activated []activation.ActivatedEvent
	ch.Subscribe(activation.EventActivated, func(detail any) {
		activated = append(activated, detail.(activation.ActivatedEvent))
	})

	require.NoError(t, proto.Activate())
	assert.True(t, proto.Active())
	assert.Equal(t, "menu", proto.LastActiveView())
	assert.Equal(t, []string{"screensaver"}, nav.visited)

	flag, _ := store.Get("idle.isActive")
	assert.Equal(t, true, flag)

	require.Len(t, activated, 1)
	assert.Equal(t, activation.ActivatedEvent{ViewID: "screensaver", PreviousViewID: "menu"}, activated[0])
}

func TestProtocol_ActivateIdempotent(t *testing.T) {
	t.Parallel()

	nav := &fakeNavigator{current: "menu"}
	proto, _, _ := newProtocol(t, nav, activation.ExitReturn)

	require.NoError(t, proto.Activate())
	require.NoError(t, proto.Activate())
	assert.Equal(t, []string{"screensaver"}, nav.visited, "second activation is a no-op")
}

func TestProtocol_ActivateDoesNotOverwriteLastActiveOnTarget(t *testing.T) {
	t.Parallel()

	nav := &fakeNavigator{current: "menu"}
	proto, _, _ := newProtocol(t, nav, activation.ExitReturn)

	require.NoError(t, proto.Activate())
	require.NoError(t, proto.Deactivate())
	assert.Equal(t, "menu", nav.current)

	// Simulate sitting on the target view already: last active is kept.
	nav.current = "screensaver"
	require.NoError(t, proto.Activate())
	assert.Equal(t, "menu", proto.LastActiveView())
}

func TestProtocol_ActivateRollsBackOnTransitionFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("view missing")
	nav := &fakeNavigator{current: "menu", err: boom}
	proto, store, _ := newProtocol(t, nav, activation.ExitReturn)

	err := proto.Activate()
	require.ErrorIs(t, err, boom)
	assert.False(t, proto.Active())

	flag, _ := store.Get("idle.isActive")
	assert.Equal(t, false, flag)
}

func TestProtocol_DeactivateReturnBehavior(t *testing.T) {
	t.Parallel()

	nav := &fakeNavigator{current: "menu"}
	proto, _, ch := newProtocol(t, nav, activation.ExitReturn)

	var deactivated []activation.DeactivatedEvent
	ch.Subscribe(activation.EventDeactivated, func(detail any) {
		deactivated = append(deactivated, detail.(activation.DeactivatedEvent))
	})

	require.NoError(t, proto.Activate())
	require.NoError(t, proto.Deactivate())

	assert.Equal(t, []string{"screensaver", "menu"}, nav.visited,
		"return behavior lands on the previously active view")
	require.Len(t, deactivated, 1)
	assert.Equal(t, activation.DeactivatedEvent{TargetViewID: "menu", ExitBehavior: activation.ExitReturn}, deactivated[0])
}

func TestProtocol_DeactivateResetBehavior(t *testing.T) {
	t.Parallel()

	nav := &fakeNavigator{current: "menu"}
	proto, _, _ := newProtocol(t, nav, activation.ExitReset)

	require.NoError(t, proto.Activate())
	require.NoError(t, proto.Deactivate())

	assert.Equal(t, []string{"screensaver", "attract"}, nav.visited,
		"reset behavior lands on the configured starting view")
}

func TestProtocol_DeactivateRollsBackOnFailure(t *testing.T) {
	t.Parallel()

	nav := &fakeNavigator{current: "menu"}
	proto, store, _ := newProtocol(t, nav, activation.ExitReturn)

	require.NoError(t, proto.Activate())

	boom := errors.New("transition rejected")
	nav.err = boom

	err := proto.Deactivate()
	require.ErrorIs(t, err, boom)
	assert.True(t, proto.Active(), "Active flag is restored after a failed exit transition")

	flag, _ := store.Get("idle.isActive")
	assert.Equal(t, true, flag)
}

func TestProtocol_DeactivateIdempotent(t *testing.T) {
	t.Parallel()

	nav := &fakeNavigator{current: "menu"}
	proto, _, _ := newProtocol(t, nav, activation.ExitReturn)

	require.NoError(t, proto.Deactivate())
	assert.Empty(t, nav.visited)
}

func TestProtocol_CallbackOrderOnDeactivate(t *testing.T) {
	t.Parallel()

	nav := &fakeNavigator{current: "menu"}
	store := statestore.New()
	var order []string
	proto := activation.NewProtocol(activation.Params{
		Navigator:      nav,
		Store:          store,
		StoreKey:       "gesture.isActive",
		ViewID:         "settings",
		StartingViewID: "attract",
		ExitBehavior:   activation.ExitReset,
		OnActivate:     func() { order = append(order, "activate-callback") },
		OnDeactivate:   func() { order = append(order, "deactivate-callback") },
	})

	require.NoError(t, proto.Activate())
	require.NoError(t, proto.Deactivate())
	assert.Equal(t, []string{"activate-callback", "deactivate-callback"}, order)
}

func TestProtocol_Reset(t *testing.T) {
	t.Parallel()

	nav := &fakeNavigator{current: "menu"}
	proto, store, _ := newProtocol(t, nav, activation.ExitReturn)

	require.NoError(t, proto.Activate())
	proto.Reset()

	assert.False(t, proto.Active())
	assert.Empty(t, proto.LastActiveView())
	flag, _ := store.Get("idle.isActive")
	assert.Equal(t, false, flag)
}

func TestExitBehavior_Valid(t *testing.T) {
	t.Parallel()

	assert.True(t, activation.ExitReset.Valid())
	assert.True(t, activation.ExitReturn.Valid())
	assert.False(t, activation.ExitBehavior("bounce").Valid())
}
