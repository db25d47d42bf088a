package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvironmentDefaultsToDevelopment(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "")

	assert.Equal(t, Development, GetEnvironment())
	assert.True(t, IsDevelopment())
	assert.False(t, IsTest())
	assert.False(t, IsProduction())
}

func TestGetEnvironmentFromEnvVar(t *testing.T) {
	t.Setenv("CI", "")

	t.Setenv("ENV", "production")
	assert.Equal(t, Production, GetEnvironment())
	assert.True(t, IsProduction())

	t.Setenv("ENV", "test")
	assert.Equal(t, Test, GetEnvironment())
	assert.True(t, IsTest())

	t.Setenv("ENV", "development")
	assert.Equal(t, Development, GetEnvironment())
	assert.True(t, IsDevelopment())

	t.Setenv("ENV", "staging")
	assert.Equal(t, Development, GetEnvironment())
}

func TestGetEnvironmentDetectsCI(t *testing.T) {
	t.Setenv("CI", "true")
	t.Setenv("ENV", "production")

	// CI detection wins over the ENV variable.
	assert.Equal(t, CI, GetEnvironment())
	assert.False(t, IsProduction())
}
