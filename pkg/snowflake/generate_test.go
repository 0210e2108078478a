package snowflake

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator(t *testing.T) {
	require.NoError(t, Init(1, 1))

	a, err := NextID()
	require.NoError(t, err)
	b, err := NextID()
	require.NoError(t, err)
	assert.Greater(t, b, a)

	id, err := NextStringID()
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	number, err := BookingNumber("TB")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(number, "TB-"))
}
