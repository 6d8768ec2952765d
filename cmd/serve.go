package cmd

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"autotest.dev/pkg/autotest/internal/controller"
	"autotest.dev/pkg/autotest/internal/observability"
	"autotest.dev/pkg/autotest/internal/server"
)

var serveAddrFlag string

// serveCmd represents the serve command.
var serveCmd = newServeCmd()

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API used by the web client",
		Long: `Serve POST /api/analyze, GET /api/health and GET /metrics. Each analyze
request runs one pipeline over the uploaded files and answers with the report.
The LLM backend and sandbox are taken from the configuration file and the
AUTOTEST_* environment variables.`,
		Args: cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv, err := newServer()
			if err != nil {
				return err
			}

			return srv.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&serveAddrFlag, addrFlagName, viper.GetString(serverAddrKey), "listen address")
	bindFlagToConfig(cmd.Flags().Lookup(addrFlagName), serverAddrKey)

	return cmd
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func newServer() (*server.Server, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	metrics := observability.NewMetrics(registry)

	deps, err := newDependencies(metrics, true)
	if err != nil {
		return nil, err
	}

	cfg := server.Config{
		Addr:           viper.GetString(serverAddrKey),
		MaxUploadBytes: int64(viper.GetInt(serverMaxUploadMBKey)) << 20,
	}

	slog.Info("Server configured",
		"addr", cfg.Addr,
		"backend", viper.GetString(synthBackendKey),
		"model", viper.GetString(synthModelKey),
		"sandbox", viper.GetString(executorSandboxKey),
	)

	return server.New(cfg, deps.pipeline, deps.intake, registry, controller.NewLogUI(slog.Default())), nil
}
