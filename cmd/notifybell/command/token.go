package command

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/notifybell/internal/credential"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the notification API token",
	Long: `Store or remove the bearer token used against the notification API.
The token lives in the system keyring; ` + credential.APITokenEnv + ` overrides it.`,
}

var tokenSetCmd = &cobra.Command{
	Use:   "set [token]",
	Short: "Store the API token in the system keyring",
	Long:  `Store the API token. Without an argument the token is read from stdin.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token := ""
		if len(args) == 1 {
			token = args[0]
		} else {
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("reading token from stdin: %w", err)
			}
			token = line
		}

		token = strings.TrimSpace(token)
		if token == "" {
			return fmt.Errorf("token must not be empty")
		}

		if err := credential.Set(credential.APITokenKey, token); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ API token stored")
		return nil
	},
}

var tokenClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the API token from the system keyring",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := credential.Delete(credential.APITokenKey); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ API token removed")
		return nil
	},
}

func init() {
	tokenCmd.AddCommand(tokenSetCmd, tokenClearCmd)
	rootCmd.AddCommand(tokenCmd)
}
