package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCSV(t *testing.T) {
	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a:9092", "b:9092"}, CSV(" a:9092, ,b:9092 "))
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("SIGECOB_TEST_INT", "17")
	t.Setenv("SIGECOB_TEST_BAD", "x")
	t.Setenv("SIGECOB_TEST_FLOAT", "2.5")

	assert.Equal(t, 17, EnvIntDefault("SIGECOB_TEST_INT", 1))
	assert.Equal(t, 1, EnvIntDefault("SIGECOB_TEST_BAD", 1))
	assert.Equal(t, 3, EnvIntDefault("SIGECOB_TEST_MISSING", 3))
	assert.Equal(t, 2.5, EnvFloatDefault("SIGECOB_TEST_FLOAT", 1))
	assert.Equal(t, "def", EnvDefault("SIGECOB_TEST_MISSING", "def"))
}

func TestLoad(t *testing.T) {
	t.Setenv("DATABASE_URL", "file::memory:")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("JWT_SECRET", "s")

	cfg := Load()
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "file::memory:", cfg.DatabaseURL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, []byte("s"), cfg.JWTAccessSecret)
}

func TestCheckRequired(t *testing.T) {
	assert.NoError(t, CheckRequired(RequiredString("A", "x"), Required{Env: "B", Value: []byte("y")}))

	err := CheckRequired(RequiredString("DATABASE_URL", ""), Required{Env: "JWT_SECRET"})
	assert.ErrorContains(t, err, "DATABASE_URL")
	assert.ErrorContains(t, err, "JWT_SECRET")
}
