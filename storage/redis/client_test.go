package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"TourCore/config"
)

func TestKey(t *testing.T) {
	prev := config.Cfg.RedisPrefix
	t.Cleanup(func() { config.Cfg.RedisPrefix = prev })

	config.Cfg.RedisPrefix = "tour"
	assert.Equal(t, "tour:lock:booking:42", Key("lock", "booking", "42"))
	assert.Equal(t, "tour:stats:p1", Key("stats", "", "p1"))

	config.Cfg.RedisPrefix = ""
	assert.Equal(t, "tour:x", Key("x"))
}
