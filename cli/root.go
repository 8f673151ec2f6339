package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pc-recommender/api"
	"pc-recommender/app"
	"pc-recommender/config"
	"pc-recommender/domain"
	"pc-recommender/service"
)

// cliContext carries the global flags and the wired application to every
// subcommand.
type cliContext struct {
	cfgFile     string
	verbose     bool
	storeDriver string
	apiURL      string

	out    io.Writer
	app    *app.App
	logger *zap.Logger

	newLogger func(cfg config.LoggingConfig, verbose bool) (*zap.Logger, error)
	openApp   func(cfg *config.Config, logger *zap.Logger) (*app.App, error)
}

func newCLIContext() *cliContext {
	return &cliContext{
		newLogger: app.NewLogger,
		openApp:   app.New,
	}
}

// NewRootCommand builds the pcrec command tree. Callers that execute it
// themselves skip the teardown Execute performs.
func NewRootCommand() *cobra.Command {
	return newRootCommand(newCLIContext())
}

func newRootCommand(c *cliContext) *cobra.Command {
	root := &cobra.Command{
		Use:   "pcrec",
		Short: "Get PC build recommendations and compare them",
		Long: `pcrec asks the PC recommendation service for builds that match your
purpose, budget and performance needs, and keeps a short list of builds
to compare side by side.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "config file (default: "+config.DefaultPath()+")")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "debug logging")
	flags.StringVar(&c.storeDriver, "store", "", "state store: memory, sqlite or redis")
	flags.StringVar(&c.apiURL, "api-url", "", "recommendation API base URL")

	root.AddCommand(
		newRecommendCmd(c),
		newRecommendationCmd(c),
		newComponentsCmd(c),
		newFeedbackCmd(c),
		newCompareCmd(c),
		newAuthCmd(c),
		newPrefsCmd(c),
		newThemeCmd(c),
		newAnalyticsCmd(c),
		newServeCmd(c),
	)
	return root
}

func (c *cliContext) setup(cmd *cobra.Command) error {
	c.out = cmd.OutOrStdout()

	cfg, err := config.Load(c.cfgFile)
	if err != nil {
		return err
	}
	if c.storeDriver != "" {
		cfg.Store.Driver = c.storeDriver
	}
	if c.apiURL != "" {
		cfg.API.BaseURL = c.apiURL
	}

	c.logger, err = c.newLogger(cfg.Logging, c.verbose)
	if err != nil {
		return err
	}

	c.app, err = c.openApp(cfg, c.logger)
	if err != nil {
		return err
	}

	lipgloss.SetHasDarkBackground(c.app.Theme.Mode() == domain.ThemeDark)

	if res := c.app.Comparison.MigrateLegacy(); !res.Success {
		c.logger.Warn("legacy comparison migration failed", zap.Error(res.Err))
	}
	return nil
}

func (c *cliContext) teardown() error {
	var err error
	if c.app != nil {
		err = c.app.Close()
		c.app = nil
	}
	if c.logger != nil {
		_ = c.logger.Sync()
	}
	return err
}

// run executes root and tears down whatever setup opened, whether or not
// the command failed.
func run(ctx context.Context, c *cliContext, root *cobra.Command) error {
	err := root.ExecuteContext(ctx)
	if cerr := c.teardown(); err == nil {
		err = cerr
	}
	return err
}

// Execute runs pcrec and returns the process exit code.
func Execute() int {
	c := newCLIContext()
	if err := run(context.Background(), c, newRootCommand(c)); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: ")+userMessage(err))
		return 1
	}
	return 0
}

// resultError turns a failed comparison result into a command error.
type resultError struct {
	res domain.ComparisonResult
}

func (e *resultError) Error() string { return e.res.Message }

func (e *resultError) Unwrap() error { return e.res.Err }

func checkResult(res domain.ComparisonResult) error {
	if res.Success {
		return nil
	}
	return &resultError{res: res}
}

// userMessage picks the text worth showing for err.
func userMessage(err error) string {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		msg := "invalid requirements"
		for _, e := range verr.Errors {
			msg += "\n  - " + e
		}
		return msg
	}
	var rerr *resultError
	if errors.As(err, &rerr) {
		return rerr.Error()
	}
	var apiErr *api.Error
	var netErr *api.NetworkError
	if errors.As(err, &apiErr) || errors.As(err, &netErr) {
		return api.Message(err)
	}
	return err.Error()
}
