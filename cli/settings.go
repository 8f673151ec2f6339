package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"pc-recommender/domain"
)

func newThemeCmd(c *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|toggle]",
		Short:     "Show or change the color theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"light", "dark", "toggle"},
		RunE: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprintln(c.out, c.app.Theme.Mode())
				return nil
			}

			var mode domain.ThemeMode
			if args[0] == "toggle" {
				next, err := c.app.Theme.Toggle()
				if err != nil {
					return err
				}
				mode = next
			} else {
				mode = domain.ThemeMode(args[0])
				if err := c.app.Theme.SetMode(mode); err != nil {
					return err
				}
			}
			printSuccess(c.out, "Theme set to "+string(mode))
			return nil
		},
	}
}

func newAnalyticsCmd(c *cliContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Control anonymous usage analytics",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "enable",
			Short: "Send usage events",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				if err := c.app.Analytics.Enable(); err != nil {
					return err
				}
				printSuccess(c.out, "Analytics enabled")
				return nil
			},
		},
		&cobra.Command{
			Use:   "disable",
			Short: "Stop sending usage events",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				if err := c.app.Analytics.Disable(); err != nil {
					return err
				}
				printSuccess(c.out, "Analytics disabled")
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show whether analytics is on",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				state := "disabled"
				if c.app.Analytics.Enabled() {
					state = "enabled"
				}
				fmt.Fprintf(c.out, "Analytics: %s\nSession: %s\n", state, c.app.Analytics.SessionID())
				return nil
			},
		},
		&cobra.Command{
			Use:   "retry",
			Short: "Resend events that failed to send earlier",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				sent, err := c.app.Analytics.RetryStored(cmd.Context())
				if err != nil {
					return err
				}
				printSuccess(c.out, fmt.Sprintf("Sent %d queued events", sent))
				return nil
			},
		},
	)
	return cmd
}
