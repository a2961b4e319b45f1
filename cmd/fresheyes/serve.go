package main

import (
	"github.com/spf13/cobra"

	"github.com/holon-run/fresheyes/pkg/log"
	"github.com/holon-run/fresheyes/pkg/mirror"
	"github.com/holon-run/fresheyes/pkg/server"
)

var (
	serveAddr string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the fresheyes HTTP server",
	Long: `Run the fresheyes HTTP server.

POST /process_pull_request with {"owner", "repo", "pull_number"} and an
"Authorization: Bearer <token>" header mirrors the pull request using the
caller's token. The server stops gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		serverCfg := cfg.Server
		if cmd.Flags().Changed("addr") {
			serverCfg.Address = serveAddr
		}
		if cmd.Flags().Changed("port") {
			serverCfg.Port = servePort
		}

		// the caller's bearer token replaces these per request
		svc := mirror.NewService(nil, mirror.ClientFactory(clientOptions()...),
			mirror.WithLogger(log.L()),
			mirror.WithReviewLookup(cfg.Mirror.FetchReviews),
		)

		srv := server.New(serverCfg, svc,
			server.WithLogger(log.L()),
			server.WithVersion(Version),
		)
		return srv.Run(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Address to bind (default from config, 0.0.0.0)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from config or $PORT, 8080)")
	rootCmd.AddCommand(serveCmd)
}
