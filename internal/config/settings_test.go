package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettingsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"token": "secret",
		"guild_id": "guild-1",
		"channels": {
			"ios_beta": "chan-1",
			"android_beta": "chan-2"
		},
		"question_timeout_seconds": 120
	}`), 0644))

	settings, err := LoadSettingsFromFile(path)

	require.NoError(t, err)
	assert.Equal(t, "secret", settings.Token)
	assert.Equal(t, "guild-1", settings.GuildID)
	assert.Equal(t, "chan-1", settings.Channels["ios_beta"])
	assert.Equal(t, 120, settings.QuestionTimeout())
	// Unset values fall back to defaults
	assert.Equal(t, DefaultReviewTimeoutSeconds, settings.ReviewTimeout())
}

func TestLoadSettingsFromFile_Missing(t *testing.T) {
	settings, err := LoadSettingsFromFile(filepath.Join(t.TempDir(), "nope.json"))

	require.NoError(t, err)
	assert.Empty(t, settings.Token)
	assert.Equal(t, DefaultQuestionTimeoutSeconds, settings.QuestionTimeout())
}

func TestLoadSettingsFromFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	_, err := LoadSettingsFromFile(path)

	assert.Error(t, err)
}

func TestGetDBPath(t *testing.T) {
	assert.Equal(t, "~/.bugbot/bugbot.db", (&Settings{}).GetDBPath())
	assert.Equal(t, "/tmp/custom.db", (&Settings{DBPath: "/tmp/custom.db"}).GetDBPath())
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".bugbot"), ExpandPath("~/.bugbot"))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, "/absolute/path", ExpandPath("/absolute/path"))
	assert.Equal(t, "relative", ExpandPath("relative"))
}
