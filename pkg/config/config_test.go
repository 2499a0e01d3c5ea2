package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCSV(t *testing.T) {
	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a:9092", "b:9092"}, CSV(" a:9092, ,b:9092 "))
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("MENERIC_TEST_STR", "value")
	t.Setenv("MENERIC_TEST_INT", "42")
	t.Setenv("MENERIC_TEST_BAD_INT", "forty")
	t.Setenv("MENERIC_TEST_DUR", "3s")
	t.Setenv("MENERIC_TEST_BOOL", "false")

	assert.Equal(t, "value", EnvDefault("MENERIC_TEST_STR", "def"))
	assert.Equal(t, "def", EnvDefault("MENERIC_TEST_UNSET", "def"))
	assert.Equal(t, 42, EnvIntDefault("MENERIC_TEST_INT", 1))
	assert.Equal(t, 1, EnvIntDefault("MENERIC_TEST_BAD_INT", 1))
	assert.Equal(t, 3*time.Second, EnvDurationDefault("MENERIC_TEST_DUR", time.Second))
	assert.Equal(t, time.Second, EnvDurationDefault("MENERIC_TEST_UNSET", time.Second))
	assert.False(t, EnvBoolDefault("MENERIC_TEST_BOOL", true))
	assert.True(t, EnvBoolDefault("MENERIC_TEST_UNSET", true))
}

func TestMissing(t *testing.T) {
	assert.Empty(t, Missing("JWT_SECRET", "s3cret", "STORAGE_KEY", "meneric_db"))
	assert.Equal(t, []string{"STORAGE_KEY"}, Missing("JWT_SECRET", "s3cret", "STORAGE_KEY", "  "))
	assert.Equal(t, []string{"ORPHAN"}, Missing("ORPHAN"))
}
