package cmd

import (
	"os"
	"strconv"

	"github.com/alecthomas/kong"

	"bugbot/internal/config"
	"bugbot/internal/logging"
)

// CLI represents the command-line interface structure
type CLI struct {
	Version     kong.VersionFlag `help:"Show version information"`
	Debug       bool             `help:"Enable debug logging to file" short:"d"`
	DebugFile   string           `help:"Custom path for debug log file (disables automatic cleanup)"`
	MaxLogFiles int              `help:"Maximum number of log files to keep (0 = unlimited)" default:"1000"`

	Run     RunCmd     `cmd:"" help:"Start the bot (default)" default:"1"`
	Reports ReportsCmd `cmd:"reports" help:"Inspect persisted bug reports"`

	// Internal fields (not flags)
	settings *config.Settings `kong:"-"`
}

// SetSettings sets the settings on the CLI struct
func (c *CLI) SetSettings(settings *config.Settings) {
	c.settings = settings
}

// Settings returns the loaded settings
func (c *CLI) Settings() *config.Settings {
	return c.settings
}

// AfterApply initializes logging after CLI parsing and applies settings
func (c *CLI) AfterApply() error {
	// Apply settings with precedence: CLI flags > env vars > settings.json

	if c.settings != nil {
		if c.MaxLogFiles == 1000 {
			if _, hasEnv := os.LookupEnv("BUGBOT_MAX_LOG_FILES"); !hasEnv {
				if c.settings.MaxLogFiles != nil {
					c.MaxLogFiles = *c.settings.MaxLogFiles
				}
			}
		}

		if !c.Debug {
			if _, hasEnv := os.LookupEnv("BUGBOT_DEBUG"); !hasEnv {
				if c.settings.Debug != nil && *c.settings.Debug {
					c.Debug = true
				}
			}
		}
	}

	logFilePath, err := logging.Initialize(c.Debug, c.DebugFile, c.MaxLogFiles)
	if err != nil {
		return err
	}

	// Export debug settings so child processes share the same log file
	if c.Debug || c.DebugFile != "" {
		os.Setenv("BUGBOT_DEBUG", "1")
		if logFilePath != "" {
			os.Setenv("BUGBOT_DEBUG_FILE", logFilePath)
		}
	}
	if c.MaxLogFiles != 1000 {
		os.Setenv("BUGBOT_MAX_LOG_FILES", strconv.Itoa(c.MaxLogFiles))
	}

	return nil
}
