package noop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/fndispatch/internal/caller"
	"github.com/vk/fndispatch/internal/registry"
)

func TestPing_ReturnsNoValue(t *testing.T) {
	reg := registry.New()
	require.NoError(t, (&Module{}).Register(reg))
	reg.Seal()

	before := Pings()
	got, err := caller.Invoke[caller.Void](reg, Ping)
	require.NoError(t, err)
	assert.Equal(t, caller.Void{}, got)
	assert.Equal(t, before+1, Pings())

	n, err := caller.Invoke[int64](reg, Pings)
	require.NoError(t, err)
	assert.Equal(t, before+1, n)

	_, err = caller.Invoke[caller.Void](reg, Log, "hello")
	require.NoError(t, err)
}
