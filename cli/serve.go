package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	httpLayer "pc-recommender/http"
)

func newServeCmd(c *cliContext) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the comparison and recommendation API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := c.app.Config
			if addr == "" {
				addr = cfg.Server.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			server := httpLayer.NewServer(
				addr,
				httpLayer.Services{
					Comparison:      c.app.Comparison,
					Recommendations: c.app.Recommendations,
					Analytics:       c.app.Analytics,
				},
				cfg.Server.RateLimit,
				cfg.Server.RateWindow,
				c.logger.Named("http"),
			)
			return server.ListenAndServe(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
