package preset

import (
	"testing"

	"github.com/beam-cloud/h5e/pkg/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsShortInput(t *testing.T) {
	for _, size := range []int{0, 1, common.PresetSize - 1} {
		c, err := New(make([]byte, size))
		require.ErrorIs(t, err, common.ErrTruncatedInput)
		assert.Nil(t, c)
	}

	_, err := New(nil)
	require.ErrorIs(t, err, common.ErrTruncatedInput)
}

func TestNewCopiesInput(t *testing.T) {
	data := newBlob().name("Original").bytes()

	c, err := New(data)
	require.NoError(t, err)
	defer c.Close()

	copy(data[common.PresetNameOffset:], "Mutated!")

	name, err := c.Name()
	require.NoError(t, err)
	assert.Equal(t, "Original", name)
}

func TestNewKeepsOnlyPresetSize(t *testing.T) {
	data := make([]byte, common.PresetSize+512)
	copy(data[common.PresetNameOffset:], "Oversized")

	c, err := New(data)
	require.NoError(t, err)
	defer c.Close()

	assert.Len(t, c.data, common.PresetSize)

	name, err := c.Name()
	require.NoError(t, err)
	assert.Equal(t, "Oversized", name)
}

func TestClosedContext(t *testing.T) {
	c, err := New(newBlob().bytes())
	require.NoError(t, err)

	c.Close()
	c.Close()

	_, err = c.Name()
	require.ErrorIs(t, err, common.ErrInvalidArgument)

	_, err = c.Amp(0)
	require.ErrorIs(t, err, common.ErrInvalidArgument)

	_, err = c.Cab(0)
	require.ErrorIs(t, err, common.ErrInvalidArgument)

	_, err = c.Fx(0)
	require.ErrorIs(t, err, common.ErrInvalidArgument)
}

func TestNilContext(t *testing.T) {
	var c *Context

	_, err := c.Name()
	require.ErrorIs(t, err, common.ErrInvalidArgument)

	_, err = c.Amp(0)
	require.ErrorIs(t, err, common.ErrInvalidArgument)

	_, err = Decode(c)
	require.ErrorIs(t, err, common.ErrInvalidArgument)

	c.Close()
}
