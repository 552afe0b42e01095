package command

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/nhle/notifybell/internal/model"
)

var forceInit bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with default values",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(cfgFile); err == nil && !forceInit {
			return fmt.Errorf("%s already exists (use --force to overwrite)", cfgFile)
		} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("checking %s: %w", cfgFile, err)
		}

		if err := model.SaveConfig(cfgFile, model.DefaultAppConfig()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ wrote %s\n", cfgFile)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		source := "local store " + cfg.Store.Path
		if cfg.API.BaseURL != "" {
			source = "api " + cfg.API.BaseURL
		}
		fmt.Fprintf(out, "config:        %s\n", cfgFile)
		fmt.Fprintf(out, "source:        %s\n", source)
		fmt.Fprintf(out, "page size:     %d (filter %s)\n", cfg.API.PageSize, cfg.API.Filter)
		fmt.Fprintf(out, "preview:       %d, %d words\n", cfg.Widget.PreviewSize, cfg.Widget.WordLimit)
		fmt.Fprintf(out, "badge cap:     %d\n", cfg.Widget.BadgeCap)
		fmt.Fprintf(out, "interval:      %ds\n", cfg.Widget.RefreshIntervalSec)
		fmt.Fprintf(out, "log:           %s (%s)\n", cfg.Log.File, cfg.Log.Level)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd, configShowCmd)
	rootCmd.AddCommand(configCmd)
}
