package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("STORAGE_KEY", "")
	t.Setenv("GEMINI_TIMEOUT", "")
	t.Setenv("CSRF_ENABLED", "")

	cfg := Load()

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, []byte("s3cret"), cfg.JWTSecret)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, DefaultStorageKey, cfg.StorageKey)
	assert.Equal(t, 15*time.Second, cfg.GeminiTimeout)
	assert.True(t, cfg.CSRFEnabled)
}
