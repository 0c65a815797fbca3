package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"MINDTOOLS_MAX_TODOS",
		"MINDTOOLS_AUTO_CLEANUP_COMPLETED",
		"MINDTOOLS_ENABLE_MEMORY_OPS",
		"MINDTOOLS_MAX_MEMORIES_PER_SEARCH",
		"MINDTOOLS_DEBUG",
		"MINDTOOLS_DATA_DIR",
		"MINDTOOLS_DEFAULT_USER_ID",
		"MINDTOOLS_HTTP_ADDR",
	} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 50, cfg.MaxTodos)
	assert.False(t, cfg.AutoCleanupCompleted)
	assert.True(t, cfg.EnableMemoryOps)
	assert.Equal(t, 10, cfg.MaxMemoriesPerSearch)
	assert.True(t, cfg.RequireDeclaration)
	assert.False(t, cfg.AutoSaveContext)
	assert.NotEmpty(t, cfg.DataDir)
	assert.Empty(t, cfg.DefaultUserID)
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().MaxTodos, cfg.MaxTodos)
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.MaxTodos)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "mindtools.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"max_todos: 5\nauto_cleanup_completed: true\nmax_memories_per_search: 3\ndefault_user_id: local\n",
	), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.MaxTodos)
	assert.True(t, cfg.AutoCleanupCompleted)
	assert.Equal(t, 3, cfg.MaxMemoriesPerSearch)
	assert.Equal(t, "local", cfg.DefaultUserID)
	// Untouched keys keep defaults.
	assert.True(t, cfg.EnableMemoryOps)
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_todos: [oops"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestEnvOverrides(t *testing.T) {
	t.Run("env wins over yaml", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "mindtools.yaml")
		require.NoError(t, os.WriteFile(path, []byte("max_todos: 5\n"), 0o644))
		t.Setenv("MINDTOOLS_MAX_TODOS", "7")
		t.Setenv("MINDTOOLS_ENABLE_MEMORY_OPS", "false")
		t.Setenv("MINDTOOLS_DATA_DIR", "/tmp/mt")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 7, cfg.MaxTodos)
		assert.False(t, cfg.EnableMemoryOps)
		assert.Equal(t, "/tmp/mt", cfg.DataDir)
	})

	t.Run("malformed integer names the variable", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MINDTOOLS_MAX_TODOS", "many")

		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "MINDTOOLS_MAX_TODOS")
	})

	t.Run("malformed boolean names the variable", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MINDTOOLS_AUTO_CLEANUP_COMPLETED", "maybe")

		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "MINDTOOLS_AUTO_CLEANUP_COMPLETED")
	})
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxTodos = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.MaxMemoriesPerSearch = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.DataDir = " "
	assert.Error(t, cfg.Validate())

	assert.NoError(t, DefaultConfig().Validate())
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("explicit file is loaded", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "test.env")
		require.NoError(t, os.WriteFile(path, []byte("MINDTOOLS_DEFAULT_USER_ID=from-dotenv\n"), 0o644))

		// godotenv never overrides a set variable, even an empty one.
		require.NoError(t, os.Unsetenv("MINDTOOLS_DEFAULT_USER_ID"))
		require.NoError(t, LoadEnvFile(path))

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "from-dotenv", cfg.DefaultUserID)
	})

	t.Run("explicit missing file is an error", func(t *testing.T) {
		err := LoadEnvFile(filepath.Join(t.TempDir(), "missing.env"))
		assert.Error(t, err)
	})

	t.Run("missing default file is ignored", func(t *testing.T) {
		wd, err := os.Getwd()
		require.NoError(t, err)
		require.NoError(t, os.Chdir(t.TempDir()))
		t.Cleanup(func() { _ = os.Chdir(wd) })

		assert.NoError(t, LoadEnvFile(""))
		assert.NoError(t, LoadEnvFile(DefaultEnvFile))
	})
}
