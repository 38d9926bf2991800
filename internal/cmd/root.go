package cmd

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sadopc/dayplan/internal/config"
	"github.com/sadopc/dayplan/internal/logging"
	"github.com/sadopc/dayplan/internal/store"
	"github.com/sadopc/dayplan/internal/tasks"
	"github.com/sadopc/dayplan/internal/timer"
	"github.com/sadopc/dayplan/internal/tui"
)

var rootCmd = &cobra.Command{
	Use:   "dayplan",
	Short: "Terminal task lists with a Pomodoro timer",
	Long: `dayplan keeps date-labelled task lists and runs a Pomodoro countdown
in your terminal. Everything lives in memory and is gone when you quit;
use export (e) on the Tasks view to keep a copy of a list.`,
	SilenceUsage: true,
	RunE:         runApp,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $XDG_CONFIG_HOME/dayplan/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/dayplan")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("DAYPLAN")
	// e.g. DAYPLAN_TIMER_DEFAULT_MINUTES for timer.default_minutes
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

func runApp(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := openLogger(cmd, cfg)
	defer logger.Close()

	journal, err := store.NewMemory()
	if err != nil {
		return fmt.Errorf("open session journal: %w", err)
	}
	defer journal.Close()

	sessionID := uuid.New().String()
	sessionLog := logger.WithSession(sessionID)
	sessionLog.Info("session started", "config_file", viper.ConfigFileUsed(), "default_minutes", cfg.Timer.DefaultMinutes)

	app := newApp(cfg, journal, sessionLog)
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		sessionLog.Error("program exited with error", "error", err)
		return err
	}
	sessionLog.Info("session ended")
	return nil
}

// newApp wires one session: a fresh task store and a wall-clock timer.
func newApp(cfg *config.Config, journal *store.Store, logger *logging.Logger) tui.App {
	return tui.NewApp(tasks.NewStore(), timer.NewService(nil), journal, cfg, logger)
}

// openLogger returns the file logger, or a no-op logger when logging is
// disabled or the log file cannot be opened.
func openLogger(cmd *cobra.Command, cfg *config.Config) *logging.Logger {
	if !cfg.Logging.Enabled {
		return logging.NopLogger()
	}
	logger, err := logging.NewLogger(cfg.Logging.ResolveDir(), cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: logging disabled: %v\n", err)
		return logging.NopLogger()
	}
	return logger
}
