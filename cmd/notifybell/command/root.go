package command

// root.go defines the root command, which runs the dashboard TUI.

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"

	"github.com/nhle/notifybell/internal/app"
	"github.com/nhle/notifybell/internal/eventbus"
	"github.com/nhle/notifybell/internal/logx"
	"github.com/nhle/notifybell/internal/model"
)

var cfgFile string // config file path

var rootCmd = &cobra.Command{
	Use:   "notifybell",
	Short: "notifybell - admin dashboard with a notification bell",
	Long: `notifybell is a terminal admin dashboard whose header carries a
notification bell. The bell shows the unread count, previews the newest
notifications and keeps itself fresh on focus, resume and local activity.

Without an API base URL configured it reads a local SQLite store.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard()
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", model.DefaultConfigPath(), "config file path")
}

// loadConfig reads the config selected by --config.
func loadConfig() (*model.AppConfig, error) {
	cfg, err := model.LoadConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func runDashboard() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, logCloser, err := logx.OpenFile(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	src, srcCloser, err := app.OpenSource(cfg, log)
	if err != nil {
		log.Error("opening notification source", logx.Err(err))
		return err
	}
	defer srcCloser.Close()

	zones := zone.New()
	defer zones.Close()

	m := app.New(app.Deps{
		Config: cfg,
		Source: src,
		Bus:    eventbus.New(),
		Zones:  zones,
		Log:    log,
	})
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithReportFocus())
	if _, err := p.Run(); err != nil {
		log.Error("running dashboard", logx.Err(err))
		return fmt.Errorf("running dashboard: %w", err)
	}
	return nil
}
