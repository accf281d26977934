package clipboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternalClipboard(t *testing.T) {
	c := New(false)
	s, err := c.Paste()
	require.NoError(t, err)
	assert.Empty(t, s)

	require.NoError(t, c.Copy("abc\ndef"))
	s, err = c.Paste()
	require.NoError(t, err)
	assert.Equal(t, "abc\ndef", s)
}
