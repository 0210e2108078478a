package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCircuitBreaker(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker("test", 2, 10*time.Second)
	cb.now = func() time.Time { return now }

	boom := errors.New("boom")
	fail := func() error { return boom }
	ok := func() error { return nil }

	assert.ErrorIs(t, cb.Call(fail), boom)
	assert.Equal(t, StateClosed, cb.GetState())
	assert.ErrorIs(t, cb.Call(fail), boom)
	assert.Equal(t, StateOpen, cb.GetState())

	assert.ErrorIs(t, cb.Call(ok), ErrBreakerOpen)

	now = now.Add(11 * time.Second)
	assert.NoError(t, cb.Call(ok))
	assert.Equal(t, StateClosed, cb.GetState())

	assert.ErrorIs(t, cb.Call(fail), boom)
	assert.ErrorIs(t, cb.Call(fail), boom)
	now = now.Add(11 * time.Second)
	assert.ErrorIs(t, cb.Call(fail), boom, "half-open probe failure reopens")
	assert.Equal(t, StateOpen, cb.GetState())
}
