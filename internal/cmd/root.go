package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/siteops/dailyup/internal/config"
	"github.com/siteops/dailyup/internal/logging"
	"github.com/siteops/dailyup/internal/ui"
	"github.com/siteops/dailyup/version"
)

// CLI represents the command-line interface structure
type CLI struct {
	Version     kong.VersionFlag `help:"Show version information"`
	Debug       bool             `help:"Enable debug logging to file" short:"d"`
	DebugFile   string           `help:"Custom path for debug log file (disables automatic cleanup)"`
	MaxLogFiles int              `help:"Maximum number of log files to keep (0 = unlimited)" default:"200"`
	Remember    bool             `help:"Keep the session on disk between runs (sealed with a local key)"`
	Server      string           `help:"Report service URL" env:"DAILYUP_SERVER_URL"`

	Run      RunCmd      `cmd:"" help:"Start the dailyup TUI (default)" default:"1"`
	Login    LoginCmd    `cmd:"login" help:"Log in to the report service"`
	Logout   LogoutCmd   `cmd:"logout" help:"End the session and forget stored tokens"`
	Refresh  RefreshCmd  `cmd:"refresh" help:"Renew the access token now"`
	Status   StatusCmd   `cmd:"status" help:"Show the current session"`
	Project  ProjectCmd  `cmd:"project" help:"Show the project assigned to the logged-in user"`
	Parse    ParseCmd    `cmd:"parse" help:"Parse a report workbook and preview its rows"`
	Upload   UploadCmd   `cmd:"upload" help:"Parse a workbook and upload selected reports"`
	History  HistoryCmd  `cmd:"history" help:"Show recent upload attempts"`
	Settings SettingsCmd `cmd:"settings" help:"Manage settings (meta)"`

	// Internal fields (not flags)
	Container *Container       `kong:"-"`
	settings  *config.Settings `kong:"-"`
}

// SetSettings sets the settings on the CLI struct
func (c *CLI) SetSettings(settings *config.Settings) {
	c.settings = settings
}

// AfterApply initializes logging after CLI parsing and applies settings
func (c *CLI) AfterApply() error {
	if c.settings == nil {
		c.settings = &config.Settings{}
	}

	// Precedence: CLI flags > env vars > settings.json > defaults.
	// Settings apply only while the flag holds its default and no env var is set.
	if c.MaxLogFiles == logging.DefaultMaxLogFiles {
		if _, hasEnv := os.LookupEnv(logging.EnvMaxLogFiles); !hasEnv {
			if c.settings.MaxLogFiles != nil {
				c.MaxLogFiles = *c.settings.MaxLogFiles
			}
		}
	}
	if !c.Debug {
		if _, hasEnv := os.LookupEnv(logging.EnvDebug); !hasEnv {
			if c.settings.Debug != nil && *c.settings.Debug {
				c.Debug = true
			}
		}
	}
	if !c.Remember && c.settings.PersistSession() {
		c.Remember = true
	}

	logFilePath, err := logging.Initialize(c.Debug, c.DebugFile, c.MaxLogFiles)
	if err != nil {
		return err
	}
	if c.Debug || c.DebugFile != "" {
		os.Setenv(logging.EnvDebug, "1")
		if logFilePath != "" {
			os.Setenv(logging.EnvDebugFile, logFilePath)
		}
	}

	// Container is created after logging so gorm's logger has a target
	container, err := NewContainer(c.settings, c.Remember)
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	c.Container = container

	return nil
}

// Close closes all resources held by the CLI
func (c *CLI) Close() error {
	if c.Container != nil {
		return c.Container.Close()
	}
	return nil
}

// endpoint returns the server URL: --server / $DAILYUP_SERVER_URL, then settings, then the default
func (c *CLI) endpoint() string {
	if c.Server != "" {
		return c.Server
	}
	return c.settings.EffectiveServerURL()
}

// RunCmd starts the TUI application
type RunCmd struct {
	ErrorClearDelay int    `help:"Seconds before error messages auto-clear" default:"10"`
	File            string `arg:"" optional:"" help:"Workbook to open on start" type:"existingfile"`
	Overwrite       bool   `help:"Overwrite reports that already exist on the server"`
}

// Run executes the TUI
func (r *RunCmd) Run(cli *CLI) error {
	if r.ErrorClearDelay == config.DefaultErrorClearDelay && cli.settings.ErrorClearDelay != nil {
		r.ErrorClearDelay = *cli.settings.ErrorClearDelay
	}
	if !r.Overwrite && cli.settings.OverwriteDefault != nil {
		r.Overwrite = *cli.settings.OverwriteDefault
	}

	var keysConfig config.KeyBindingsConfig
	if cli.settings.Keys != nil {
		if err := cli.settings.Keys.Validate(ui.GetValidKeyNames()); err != nil {
			return fmt.Errorf("invalid key bindings in settings.json: %w", err)
		}
		keysConfig = cli.settings.Keys
		logging.Logger.Debug("Custom key bindings loaded and validated")
	}

	logging.Logger.Info("Starting dailyup TUI", "endpoint", cli.endpoint())

	// A failed restore is shown on the login screen rather than aborting
	restoreErr := cli.Container.SessionService.Restore(context.Background())
	if restoreErr != nil {
		logging.Logger.Warn("Failed to restore session", "error", restoreErr)
	}

	model := ui.NewModel(
		ui.Options{
			DevMode:         version.IsDev(),
			Endpoint:        cli.endpoint(),
			ErrorClearDelay: time.Duration(r.ErrorClearDelay) * time.Second,
			InitialError:    restoreErr,
			InitialFile:     r.File,
			Keys:            keysConfig,
			Overwrite:       r.Overwrite,
			Username:        cli.settings.Username,
		},
		cli.Container.SessionService,
		cli.Container.BatchService,
	)
	p := tea.NewProgram(model, tea.WithAltScreen())
	model.Attach(p)

	if _, err := p.Run(); err != nil {
		logging.Logger.Error("TUI program error", "error", err)
		return fmt.Errorf("error running program: %w", err)
	}

	logging.Logger.Info("TUI program exited normally")
	return nil
}
