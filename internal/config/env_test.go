package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	env, err := Load(&Overrides{
		ConfigPaths: []string{t.TempDir()}, // empty dir, forces the built-in defaults
		Set: map[string]any{
			"server.port":     "9090",
			"github.app_id":   int64(42),
			"database.driver": "sqlite3",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "9090", env.Server.Port)
	assert.Equal(t, int64(42), env.GitHub.AppID)
	assert.Equal(t, "postgres", func() string { e2, _ := Load(nil); return e2.Database.Driver }())
	assert.Equal(t, "sqlite3", env.Database.Driver)
	assert.Equal(t, "ollama", env.AI.LLMProvider)
	assert.True(t, env.Features.EnableGraphAnalysis)
}

func TestEnv_ValidateForCLI(t *testing.T) {
	env := &Env{AI: AIConfig{LLMProvider: "gemini"}}
	assert.Error(t, env.ValidateForCLI())

	env.AI.GeminiAPIKey = "secret"
	assert.NoError(t, env.ValidateForCLI())
}

func TestDBConfig_DSN(t *testing.T) {
	pg := DBConfig{Driver: "postgres", Host: "db", Port: 5432, Username: "u", Password: "p", Database: "d", SSLMode: "disable"}
	assert.Contains(t, pg.DSN(), "host=db")

	lite := DBConfig{Driver: "sqlite3", SQLitePath: "/tmp/grepiku.db"}
	assert.Equal(t, "/tmp/grepiku.db", lite.DSN())
}
