package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	d, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, 9*time.Hour+30*time.Minute, d)

	d, err = ParseClock("23:59:10")
	require.NoError(t, err)
	assert.Equal(t, 23*time.Hour+59*time.Minute+10*time.Second, d)

	_, err = ParseClock("25:00")
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-11-02", nil)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("02/11/2026", time.UTC)
	assert.Error(t, err)
}
