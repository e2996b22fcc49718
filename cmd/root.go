package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/HaiFongPan/r2review/internal/config"
	"github.com/HaiFongPan/r2review/internal/r2"
	"github.com/HaiFongPan/r2review/internal/review"
	"github.com/HaiFongPan/r2review/internal/tui"
	"github.com/HaiFongPan/r2review/internal/tui/image"
	"github.com/HaiFongPan/r2review/internal/utils"
)

var (
	cfgFile      string
	verbose      bool
	quiet        bool
	openAsset    string
	globalConfig *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "r2review [prefix]",
	Short: "Review media assets stored in Cloudflare R2",
	Long: `r2review is a terminal workspace for reviewing media stored in Cloudflare R2.
The workspace shows the asset library, a player and the comment thread side by
side; panels can be toggled with 1/2/3 and resized by dragging their dividers.

Example usage:
  r2review                          # Open the workspace
  r2review clips/                   # Only show assets under clips/
  r2review list
  r2review upload cut-v2.mp4 clips/cut-v2.mp4
  r2review comments add clips/cut-v2.mp4 "Audio pops here" --at 1:32
  r2review link clips/cut-v2.mp4`,
	Args: cobra.MaximumNArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	RunE: runWorkspace,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ~/.r2review/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "enable quiet mode")

	rootCmd.Flags().StringVarP(&openAsset, "asset", "a", "", "asset to open (default is the last one reviewed)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() error {
	var err error
	globalConfig, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Configure logging
	setupLogging()

	return nil
}

// setupLogging configures the global logger based on config and flags
func setupLogging() {
	// Set log level
	level := globalConfig.Log.Level
	if verbose {
		level = "debug"
	} else if quiet {
		level = "error"
	}

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Warnf("Invalid log level %s, using info", level)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)

	// Redirect all logs to file to prevent UI interference
	logDir := "/tmp/r2review"
	if err := os.MkdirAll(logDir, 0755); err != nil {
		// Fallback to stderr if can't create log directory
		logrus.Warnf("Failed to create log directory %s: %v", logDir, err)
	} else {
		logFile := filepath.Join(logDir, "app.log")
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			logrus.Warnf("Failed to open log file %s: %v", logFile, err)
		} else {
			logrus.SetOutput(file)
		}
	}

	// Set log format
	if globalConfig.Log.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: quiet,
			FullTimestamp:    verbose,
		})
	}
}

// GetConfig returns the global configuration
func GetConfig() *config.Config {
	return globalConfig
}

func newClient(ctx context.Context) (*r2.Client, error) {
	cfg := GetConfig()
	client, err := r2.NewClient(ctx, &cfg.R2, cfg.General.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to create R2 client: %w", err)
	}
	return client, nil
}

// openStore opens the comment database from config, or the XDG default.
func openStore() (*review.Store, error) {
	path := GetConfig().Review.DatabasePath
	if path == "" {
		var err error
		if path, err = review.DefaultDatabasePath(); err != nil {
			return nil, fmt.Errorf("failed to locate comment database: %w", err)
		}
	}
	store, err := review.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open comment database: %w", err)
	}
	logrus.Debugf("Using comment database %s", path)
	return store, nil
}

// currentActor resolves who is running the command and what they may do.
func currentActor(ud *config.UserData) (review.Actor, error) {
	cfg := GetConfig()
	role, err := review.ParseRole(cfg.Review.Role)
	if err != nil {
		return review.Actor{}, err
	}
	return review.Actor{Name: config.ResolveAuthor(cfg, ud), Role: role}, nil
}

func loadUserData() *config.UserData {
	ud, err := config.LoadUserData()
	if err != nil {
		logrus.Warnf("Failed to load user data: %v", err)
	}
	return ud
}

// runWorkspace opens the interactive review workspace
func runWorkspace(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	ctx := cmd.Context()

	client, err := newClient(ctx)
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ud := loadUserData()
	actor, err := currentActor(ud)
	if err != nil {
		return err
	}

	thumbs, err := image.NewThumbnailer(client, cfg.UI.ThumbnailCacheEntries)
	if err != nil {
		return err
	}

	var prefix string
	if len(args) > 0 {
		prefix = args[0]
	}
	initial := openAsset
	if initial == "" {
		initial = ud.LastAsset
	}

	model := tui.New(tui.Options{
		Assets:          client,
		Comments:        store,
		Links:           utils.NewLinkGenerator(client, cfg.GetCustomDomain(), 0),
		Thumbnails:      thumbs,
		Actor:           actor,
		Bounds:          cfg.Layout.Bounds(),
		Widths:          cfg.Layout.Widths(),
		CompactWidth:    cfg.UI.CompactWidth,
		FrameInterval:   cfg.UI.FrameInterval(),
		Timeout:         cfg.General.Timeout(),
		Prefix:          prefix,
		InitialAsset:    initial,
		CopyToClipboard: utils.CopyToClipboard,
	})
	defer model.Close()

	logrus.Infof("Opening workspace on bucket %s as %s (%s)", client.Bucket(), actor.Name, actor.Role)

	// Launch the workspace with bubbletea
	program := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := program.Run(); err != nil {
		return err
	}

	if key := model.SelectedKey(); key != "" && key != ud.LastAsset {
		if err := ud.SetLastAsset(key); err != nil {
			logrus.Warnf("Failed to remember last asset: %v", err)
		}
	}
	return nil
}
