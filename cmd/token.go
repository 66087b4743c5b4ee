package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/ghnotify/internal/credential"
	"github.com/nhle/ghnotify/internal/github"
)

func newTokenCmd() *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the stored GitHub token",
	}

	tokenCmd.AddCommand(
		newTokenSetCmd(),
		newTokenVerifyCmd(),
		newTokenClearCmd(),
	)

	return tokenCmd
}

func newTokenSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set [token]",
		Short: "Store a GitHub token in the system keyring",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var token string
			if len(args) == 1 {
				token = args[0]
			} else {
				fmt.Fprint(cmd.OutOrStdout(), "Token: ")
				reader := bufio.NewReader(cmd.InOrStdin())
				line, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("reading token: %w", err)
				}
				token = strings.TrimSpace(line)
			}

			if token == "" {
				return fmt.Errorf("token is empty")
			}

			if err := credential.Set(credential.TokenKey, token); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Token stored.")
			return nil
		},
	}
}

func newTokenVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check the stored token against the GitHub API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			token := os.Getenv("GITHUB_TOKEN")
			if token == "" {
				var err error
				token, err = credential.Get(credential.TokenKey)
				if err != nil {
					return err
				}
			}
			if token == "" {
				return fmt.Errorf("no token found; run `ghnotify token set` first")
			}

			login, err := github.NewClient(token).Viewer(cmd.Context())
			if err != nil {
				return fmt.Errorf("token verification failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Authenticated as %s\n", login)
			return nil
		},
	}
}

func newTokenClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored token from the system keyring",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := credential.Delete(credential.TokenKey); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Token removed.")
			return nil
		},
	}
}
