package wm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/framewm/internal/wm"
)

func TestRegistryRoundTrip(t *testing.T) {
	reg := wm.NewRegistry()
	c := wm.Client{TopLevel: 10, Frame: 20, Titlebar: 21, CloseAffordance: 22}
	require.NoError(t, reg.Register(c.Keys(), c.Frame, c))

	for _, w := range c.Keys() {
		frame, ok := reg.LookupFrame(w)
		require.True(t, ok, "key 0x%x not registered", w)
		got, ok := reg.LookupClient(frame)
		require.True(t, ok)
		assert.Contains(t, []wm.Window{got.TopLevel, got.Frame, got.Titlebar, got.CloseAffordance}, w)
	}

	assert.True(t, reg.IsTitlebar(21))
	assert.False(t, reg.IsTitlebar(22))
	assert.True(t, reg.IsCloseAffordance(22))
	assert.False(t, reg.IsCloseAffordance(10))
	assert.True(t, reg.IsTopLevel(10))
	assert.False(t, reg.IsTopLevel(20))
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	reg := wm.NewRegistry()
	a := wm.Client{TopLevel: 10, Frame: 20, Titlebar: 21}
	require.NoError(t, reg.Register(a.Keys(), a.Frame, a))

	sameFrame := wm.Client{TopLevel: 11, Frame: 20, Titlebar: 31}
	assert.ErrorIs(t, reg.Register(sameFrame.Keys(), sameFrame.Frame, sameFrame), wm.ErrAlreadyFramed)

	sharedTop := wm.Client{TopLevel: 10, Frame: 40, Titlebar: 41}
	assert.ErrorIs(t, reg.Register(sharedTop.Keys(), sharedTop.Frame, sharedTop), wm.ErrAlreadyFramed)

	assert.Equal(t, 1, reg.Len())
	_, ok := reg.LookupFrame(40)
	assert.False(t, ok, "failed registration must not leave keys behind")
}

func TestRegistryRemove(t *testing.T) {
	reg := wm.NewRegistry()
	a := wm.Client{TopLevel: 10, Frame: 20, Titlebar: 21, CloseAffordance: 22}
	b := wm.Client{TopLevel: 11, Frame: 30, Titlebar: 31}
	require.NoError(t, reg.Register(a.Keys(), a.Frame, a))
	require.NoError(t, reg.Register(b.Keys(), b.Frame, b))

	reg.Remove(a.Frame)
	for _, w := range a.Keys() {
		_, ok := reg.LookupFrame(w)
		assert.False(t, ok, "key 0x%x survived removal", w)
	}
	assert.Equal(t, []wm.Client{b}, reg.Clients())

	reg.Remove(a.Frame)
	assert.Equal(t, 1, reg.Len())
}

func TestClientKeysSkipsMissingCloseAffordance(t *testing.T) {
	c := wm.Client{TopLevel: 1, Frame: 2, Titlebar: 3}
	assert.Equal(t, []wm.Window{1, 2, 3}, c.Keys())
}
