package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Defaults applied when settings.json and flags leave a value unset
const (
	DefaultQuestionTimeoutSeconds = 300
	DefaultReviewTimeoutSeconds   = 180
)

// Settings represents the structure of ~/.bugbot/settings.json
type Settings struct {
	Channels               map[string]string `json:"channels,omitempty"`
	DBPath                 string            `json:"db_path,omitempty"`
	Debug                  *bool             `json:"debug,omitempty"`
	DiagnosticsChannelID   string            `json:"diagnostics_channel_id,omitempty"`
	GuildID                string            `json:"guild_id,omitempty"`
	MaxLogFiles            *int              `json:"max_log_files,omitempty"`
	MutedRoleID            string            `json:"muted_role_id,omitempty"`
	QuestionTimeoutSeconds *int              `json:"question_timeout_seconds,omitempty"`
	ReviewTimeoutSeconds   *int              `json:"review_timeout_seconds,omitempty"`
	Token                  string            `json:"token,omitempty"`
}

// LoadSettings loads settings from ~/.bugbot/settings.json
// Returns empty Settings if file doesn't exist (not an error)
func LoadSettings() (*Settings, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	path := filepath.Join(homeDir, ".bugbot", "settings.json")
	return LoadSettingsFromFile(path)
}

// LoadSettingsFromFile loads settings from an explicit path
func LoadSettingsFromFile(path string) (*Settings, error) {
	data, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil // Not an error, use defaults
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("invalid settings.json: %w", err)
	}

	if settings.DBPath != "" {
		settings.DBPath = ExpandPath(settings.DBPath)
	}

	return &settings, nil
}

// GetDBPath returns the configured database path or the default
func (s *Settings) GetDBPath() string {
	if s != nil && s.DBPath != "" {
		return s.DBPath
	}
	return "~/.bugbot/bugbot.db"
}

// QuestionTimeout returns the per-question timeout in seconds
func (s *Settings) QuestionTimeout() int {
	if s != nil && s.QuestionTimeoutSeconds != nil {
		return *s.QuestionTimeoutSeconds
	}
	return DefaultQuestionTimeoutSeconds
}

// ReviewTimeout returns the final-confirmation timeout in seconds
func (s *Settings) ReviewTimeout() int {
	if s != nil && s.ReviewTimeoutSeconds != nil {
		return *s.ReviewTimeoutSeconds
	}
	return DefaultReviewTimeoutSeconds
}

// ExpandPath expands ~ to home directory in paths
func ExpandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path // Return as-is if we can't get home dir
		}
		if len(path) == 1 {
			return homeDir
		}
		return filepath.Join(homeDir, path[1:])
	}
	return path
}
