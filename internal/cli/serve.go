package cli

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/health-summary/internal/httpapi"
	"github.com/joseph-ayodele/health-summary/internal/server"
)

var (
	serveGRPCAddr string
	serveHTTPAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the summary API over gRPC and HTTP",
	Long: `Starts the gRPC SummaryService (with the standard health service) and the
HTTP/JSON API side by side. Both stop gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveGRPCAddr, "grpc-addr", "", "gRPC listen address (default from config)")
	serveCmd.Flags().StringVar(&serveHTTPAddr, "http-addr", "", "HTTP listen address (default from config); \"off\" disables it")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	grpcAddr := cfg.Server.GRPCAddr
	if serveGRPCAddr != "" {
		grpcAddr = serveGRPCAddr
	}
	httpAddr := cfg.Server.HTTPAddr
	if serveHTTPAddr != "" {
		httpAddr = serveHTTPAddr
	}
	timeout := cfg.Server.RequestTimeout.Duration

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	grpcServer, healthServer := server.NewGRPCServer(server.NewSummaryService(a.pipeline, a.export, logger), timeout, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.ServeGRPC(gctx, grpcAddr, grpcServer, healthServer, logger)
	})
	if httpAddr != "off" {
		router := httpapi.NewRouter(a.pipeline, a.export, timeout, logger)
		g.Go(func() error {
			return httpapi.Serve(gctx, httpAddr, router, logger)
		})
	}
	return g.Wait()
}
