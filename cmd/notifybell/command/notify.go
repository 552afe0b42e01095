package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/notifybell/internal/app"
	"github.com/nhle/notifybell/internal/logx"
	"github.com/nhle/notifybell/internal/source"
)

var (
	notifyTitle string
	notifyType  string
)

// notifyCmd adds a notification to the local store, e.g. from scripts.
// A running dashboard picks it up on its next refresh.
var notifyCmd = &cobra.Command{
	Use:   "notify [message]",
	Short: "Add a notification to the local store",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		src, closer, err := app.OpenSource(cfg, logx.Nop())
		if err != nil {
			return err
		}
		defer closer.Close()

		creator, ok := src.(source.Creator)
		if !ok {
			return fmt.Errorf("source %s does not accept new notifications", src.Name())
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		message := strings.Join(args, " ")
		title := notifyTitle
		if title == "" {
			title = "Notification"
		}
		if err := creator.CreateNotification(ctx, title, message, notifyType); err != nil {
			return fmt.Errorf("creating notification: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "✓ notification created")
		return nil
	},
}

func init() {
	notifyCmd.Flags().StringVarP(&notifyTitle, "title", "t", "", "notification title")
	notifyCmd.Flags().StringVar(&notifyType, "type", "general", "property, lead, broker or general")
	rootCmd.AddCommand(notifyCmd)
}
