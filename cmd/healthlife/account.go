// ABOUTME: CLI commands for local accounts.
// ABOUTME: Register, log in, change passwords and remove bcrypt-hashed credentials.
package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/harperreed/healthlife/internal/auth"
	"github.com/spf13/cobra"
)

var (
	accountPassword    string
	accountNewPassword string
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage local accounts",
	Long: `Manage the local accounts that guard the tracker.

Passwords are stored as bcrypt hashes in the configured backend. When
--password is omitted it is read from the first line of stdin.

EXAMPLES:

  healthlife account register alice
  healthlife account login alice --password secret
  healthlife account passwd alice
  healthlife account list`,
}

var accountRegisterCmd = &cobra.Command{
	Use:   "register <username>",
	Short: "Create an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := bufio.NewReader(cmd.InOrStdin())
		password := passwordFrom(cmd, in, accountPassword, "Password: ")
		cred, err := auth.NewService(backend.Credentials()).Register(args[0], password)
		if err != nil {
			return fmt.Errorf("failed to register: %w", err)
		}
		success(cmd, "Registered %s", cred.Username)
		return nil
	},
}

var accountLoginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Check a username and password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := bufio.NewReader(cmd.InOrStdin())
		password := passwordFrom(cmd, in, accountPassword, "Password: ")
		session := auth.NewSession()
		if err := auth.NewService(backend.Credentials()).Login(session, args[0], password); err != nil {
			return err
		}
		success(cmd, "Logged in as %s", session.Username())
		return nil
	},
}

var accountPasswdCmd = &cobra.Command{
	Use:   "passwd <username>",
	Short: "Change an account password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := bufio.NewReader(cmd.InOrStdin())
		current := passwordFrom(cmd, in, accountPassword, "Current password: ")
		next := passwordFrom(cmd, in, accountNewPassword, "New password: ")
		if err := auth.NewService(backend.Credentials()).ChangePassword(args[0], current, next); err != nil {
			return fmt.Errorf("failed to change password: %w", err)
		}
		success(cmd, "Password changed for %s", auth.NormalizeUsername(args[0]))
		return nil
	},
}

var accountRemoveCmd = &cobra.Command{
	Use:     "remove <username>",
	Aliases: []string{"rm"},
	Short:   "Delete an account",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := bufio.NewReader(cmd.InOrStdin())
		password := passwordFrom(cmd, in, accountPassword, "Password: ")
		if err := auth.NewService(backend.Credentials()).Remove(args[0], password); err != nil {
			return fmt.Errorf("failed to remove account: %w", err)
		}
		removed(cmd, "Removed %s", auth.NormalizeUsername(args[0]))
		return nil
	},
}

var accountListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List accounts",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := auth.NewService(backend.Credentials()).Users()
		if err != nil {
			return fmt.Errorf("failed to list accounts: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(users) == 0 {
			fmt.Fprintln(out, "No accounts.")
			return nil
		}
		for _, u := range users {
			fmt.Fprintln(out, u)
		}
		return nil
	},
}

// passwordFrom returns flagValue or prompts for one line on in.
func passwordFrom(cmd *cobra.Command, in *bufio.Reader, flagValue, prompt string) string {
	if flagValue != "" {
		return flagValue
	}
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	line, _ := in.ReadString('\n')
	return strings.TrimRight(line, "\r\n")
}

func init() {
	for _, c := range []*cobra.Command{accountRegisterCmd, accountLoginCmd, accountPasswdCmd, accountRemoveCmd} {
		c.Flags().StringVarP(&accountPassword, "password", "p", "", "password (default: read from stdin)")
	}
	accountPasswdCmd.Flags().StringVar(&accountNewPassword, "new-password", "", "new password (default: read from stdin)")

	accountCmd.AddCommand(accountRegisterCmd)
	accountCmd.AddCommand(accountLoginCmd)
	accountCmd.AddCommand(accountPasswdCmd)
	accountCmd.AddCommand(accountRemoveCmd)
	accountCmd.AddCommand(accountListCmd)
	rootCmd.AddCommand(accountCmd)
}
