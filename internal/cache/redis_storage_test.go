package cache

import (
	"testing"

	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestKeyPrefix(t *testing.T) {
	s := &RedisStorage{prefix: "limiter:"}
	assert.Equal(t, "limiter:10.0.0.1", s.key("10.0.0.1"))
}

func TestEmptyKeysAreIgnored(t *testing.T) {
	s := &RedisStorage{prefix: "limiter:"}

	val, err := s.Get("")
	assert.NoError(t, err)
	assert.Nil(t, val)
	assert.NoError(t, s.Set("", []byte("1"), 0))
	assert.NoError(t, s.Delete(""))
}

func TestNewRedisStorageFailsWithoutServer(t *testing.T) {
	_, err := NewRedisStorage(&config.Config{RedisAddr: "127.0.0.1:1"}, "limiter:")
	assert.Error(t, err)
}
