package print

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/fndispatch/internal/caller"
	"github.com/vk/fndispatch/internal/registry"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "      (null)\n", format(nil))
	assert.Equal(t, "      a = \"1\"\n      b = \"x y\"\n", format(map[string]string{"b": "x y", "a": "1"}))
}

func TestPrint_ThroughRegistry(t *testing.T) {
	var buf bytes.Buffer
	prev := out
	out = &buf
	t.Cleanup(func() { out = prev })

	reg := registry.New()
	require.NoError(t, (&Module{}).Register(reg))
	reg.Seal()

	_, err := caller.Invoke[caller.Void](reg, Print, map[string]string{"k": "v"})
	require.NoError(t, err)
	assert.Equal(t, "      k = \"v\"\n", buf.String())

	_, err = caller.Invoke[caller.Void](reg, Print, nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "(null)")
}
