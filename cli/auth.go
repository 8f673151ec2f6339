package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newAuthCmd(c *cliContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign up, log in and manage your session",
	}

	var signupName, signupEmail, signupPassword string
	signup := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := passwordOrPrompt(cmd, signupPassword)
			if err != nil {
				return err
			}
			user, err := c.app.Auth.Signup(cmd.Context(), signupName, signupEmail, password)
			if err != nil {
				return err
			}
			email := signupEmail
			if user != nil {
				email = user.Email
			}
			printSuccess(c.out, fmt.Sprintf("Account created for %s. Log in with pcrec auth login.", email))
			return nil
		},
	}
	signup.Flags().StringVar(&signupName, "name", "", "full name")
	signup.Flags().StringVar(&signupEmail, "email", "", "email address")
	signup.Flags().StringVar(&signupPassword, "password", "", "password (read from stdin when empty)")

	var loginEmail, loginPassword string
	login := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := passwordOrPrompt(cmd, loginPassword)
			if err != nil {
				return err
			}
			user, err := c.app.Auth.Login(cmd.Context(), loginEmail, password)
			if err != nil {
				return err
			}
			printSuccess(c.out, "Logged in as "+user.Email)
			return nil
		},
	}
	login.Flags().StringVar(&loginEmail, "email", "", "email address")
	login.Flags().StringVar(&loginPassword, "password", "", "password (read from stdin when empty)")

	var remote bool
	whoami := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if remote {
				user, err := c.app.Auth.Me(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(c.out, user)
			}
			user, err := c.app.Auth.CurrentUser()
			if err != nil {
				return err
			}
			if user == nil {
				fmt.Fprintln(c.out, mutedStyle.Render("Not logged in."))
				return nil
			}
			fmt.Fprintf(c.out, "%s <%s>\n", user.FullName, user.Email)
			return nil
		},
	}
	whoami.Flags().BoolVar(&remote, "remote", false, "ask the server instead of the stored session")

	var currentPassword, newPassword string
	password := &cobra.Command{
		Use:   "password",
		Short: "Change your password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.app.Auth.ChangePassword(cmd.Context(), currentPassword, newPassword); err != nil {
				return err
			}
			printSuccess(c.out, "Password changed")
			return nil
		},
	}
	password.Flags().StringVar(&currentPassword, "current", "", "current password")
	password.Flags().StringVar(&newPassword, "new", "", "new password")

	var page, pageSize int
	history := &cobra.Command{
		Use:   "history",
		Short: "List recommendations made for your account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.app.Auth.History(cmd.Context(), page, pageSize)
			if err != nil {
				return err
			}
			return printJSON(c.out, out)
		},
	}
	history.Flags().IntVar(&page, "page", 0, "page number")
	history.Flags().IntVar(&pageSize, "page-size", 0, "results per page")

	cmd.AddCommand(
		signup,
		login,
		&cobra.Command{
			Use:   "logout",
			Short: "Log out and forget the stored session",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := c.app.Auth.Logout(cmd.Context()); err != nil {
					return err
				}
				printSuccess(c.out, "Logged out")
				return nil
			},
		},
		whoami,
		&cobra.Command{
			Use:   "refresh",
			Short: "Renew the access token",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := c.app.Auth.Refresh(cmd.Context()); err != nil {
					return err
				}
				printSuccess(c.out, "Session refreshed")
				return nil
			},
		},
		password,
		history,
	)
	return cmd
}

// passwordOrPrompt returns flagValue, or the first line of stdin when the
// flag was left empty.
func passwordOrPrompt(cmd *cobra.Command, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newPrefsCmd(c *cliContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Read and update your account preferences",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get",
			Short: "Show your preferences",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				prefs, err := c.app.Auth.GetPreferences(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(c.out, prefs)
			},
		},
		&cobra.Command{
			Use:   "set FILE",
			Short: "Replace your preferences with a JSON object from FILE (- for stdin)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				raw, err := readRaw(cmd, args[0])
				if err != nil {
					return err
				}
				prefs, err := c.app.Auth.UpdatePreferences(cmd.Context(), raw)
				if err != nil {
					return err
				}
				return printJSON(c.out, prefs)
			},
		},
		&cobra.Command{
			Use:   "profile FILE",
			Short: "Update your profile from a JSON file (- for stdin)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				raw, err := readRaw(cmd, args[0])
				if err != nil {
					return err
				}
				profile, err := c.app.Auth.UpdateProfile(cmd.Context(), raw)
				if err != nil {
					return err
				}
				return printJSON(c.out, profile)
			},
		},
	)
	return cmd
}

func readRaw(cmd *cobra.Command, path string) (json.RawMessage, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return json.RawMessage(data), nil
}
