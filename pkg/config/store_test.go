package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileStore(t *testing.T) {
	t.Run("creates store with custom path", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.json")

		store, err := NewFileStore(configPath)
		require.NoError(t, err)

		assert.Equal(t, configPath, store.Path())
		assert.False(t, store.IsModified(), "new store should not be modified")
	})

	t.Run("creates store with default path when empty", func(t *testing.T) {
		store, err := NewFileStore("")
		require.NoError(t, err)

		homeDir, _ := os.UserHomeDir()
		assert.Equal(t, filepath.Join(homeDir, ".scriptwf", "config.json"), store.Path())
	})

	t.Run("loads existing config file", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.json")

		config := map[string]interface{}{
			"version": "1.0",
			"sections": map[string]map[string]interface{}{
				"workfront": {
					"base_url": "https://acme.my.workfront.com",
				},
			},
		}
		data, _ := json.MarshalIndent(config, "", "  ")
		require.NoError(t, os.WriteFile(configPath, data, 0644))

		store, err := NewFileStore(configPath)
		require.NoError(t, err)

		section, err := store.GetSection("workfront")
		require.NoError(t, err)
		assert.Equal(t, "https://acme.my.workfront.com", section["base_url"])
	})

	t.Run("rejects malformed config file", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(configPath, []byte("{not json"), 0644))

		_, err := NewFileStore(configPath)
		assert.Error(t, err)
	})
}

func TestFileStore_SaveLoadRoundTrip(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.json")

	store, err := NewFileStore(configPath)
	require.NoError(t, err)

	require.NoError(t, store.SetSection("retry", map[string]interface{}{
		"attempts": 5,
		"backoff":  2.0,
	}))
	assert.True(t, store.IsModified())

	require.NoError(t, store.Save())
	assert.False(t, store.IsModified(), "save should clear the modified flag")

	reloaded, err := NewFileStore(configPath)
	require.NoError(t, err)

	section, err := reloaded.GetSection("retry")
	require.NoError(t, err)
	// JSON round-trip turns numbers into float64
	assert.Equal(t, float64(5), section["attempts"])
	assert.Equal(t, 2.0, section["backoff"])
}

func TestFileStore_GetSection(t *testing.T) {
	t.Run("missing section returns empty map", func(t *testing.T) {
		store, err := NewFileStore(filepath.Join(t.TempDir(), "config.json"))
		require.NoError(t, err)

		section, err := store.GetSection("nope")
		require.NoError(t, err)
		assert.Empty(t, section)
	})

	t.Run("returned map is a copy", func(t *testing.T) {
		store, err := NewFileStore(filepath.Join(t.TempDir(), "config.json"))
		require.NoError(t, err)

		require.NoError(t, store.SetSection("browser", map[string]interface{}{"headless": true}))

		section, err := store.GetSection("browser")
		require.NoError(t, err)
		section["headless"] = false

		again, err := store.GetSection("browser")
		require.NoError(t, err)
		assert.Equal(t, true, again["headless"])
	})
}

func TestFileStore_SetAllGetAll(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	input := map[string]map[string]interface{}{
		"browser":   {"headless": false},
		"workfront": {"base_url": "https://acme.my.workfront.com"},
	}
	require.NoError(t, store.SetAll(input))

	all, err := store.GetAll()
	require.NoError(t, err)
	assert.Equal(t, input, all)

	// Mutating the result must not affect the store
	all["browser"]["headless"] = true
	fresh, err := store.GetSection("browser")
	require.NoError(t, err)
	assert.Equal(t, false, fresh["headless"])
}
