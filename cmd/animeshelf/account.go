package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/joestump/animeshelf/internal/account"
)

// readPassword prompts on the terminal without echo.
func readPassword(cmd *cobra.Command, prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("password required: pass --password or run from a terminal")
	}
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

func newRegisterCmd() *cobra.Command {
	var username, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a local account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				p, err := readPassword(cmd, "Password: ")
				if err != nil {
					return err
				}
				password = p
			}

			a, _, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp(a)

			u, err := a.Accounts.Register(cmd.Context(), account.Candidate{
				Username: username,
				Email:    email,
				Password: password,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "registered %s <%s>; run login to sign in\n", u.Username, u.Email)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "display username")
	cmd.Flags().StringVarP(&email, "email", "e", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with a registered email and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				p, err := readPassword(cmd, "Password: ")
				if err != nil {
					return err
				}
				password = p
			}

			a, _, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp(a)

			sess, err := a.Accounts.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "welcome, %s\n", sess.DisplayName())
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp(a)

			if err := a.Accounts.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp(a)

			sess, err := a.Accounts.CurrentUser(cmd.Context())
			if err != nil {
				return err
			}
			if sess == nil {
				return account.ErrNotLoggedIn
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\n", sess.DisplayName(), sess.Email)
			return nil
		},
	}
}

func newProfileCmd() *cobra.Command {
	var username, email, password string
	var askPassword bool

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Change the logged-in user's username, email or password",
		RunE: func(cmd *cobra.Command, args []string) error {
			var upd account.ProfileUpdate
			if cmd.Flags().Changed("username") {
				upd.Username = &username
			}
			if cmd.Flags().Changed("email") {
				upd.Email = &email
			}
			if askPassword {
				p, err := readPassword(cmd, "New password: ")
				if err != nil {
					return err
				}
				password = p
			}
			if password != "" {
				upd.Password = &password
			}

			a, _, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp(a)

			sess, err := a.Accounts.UpdateProfile(cmd.Context(), upd)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "profile updated: %s <%s>\n", sess.Username, sess.Email)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "new username")
	cmd.Flags().StringVarP(&email, "email", "e", "", "new email address")
	cmd.Flags().StringVar(&password, "password", "", "new password")
	cmd.Flags().BoolVar(&askPassword, "change-password", false, "prompt for a new password")
	return cmd
}
