// Package cmd provides the root command and CLI setup for autotest.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"autotest.dev/pkg/autotest/internal/adapter"
	"autotest.dev/pkg/autotest/internal/controller"
	"autotest.dev/pkg/autotest/internal/domain"
	m "autotest.dev/pkg/autotest/internal/model"
	"autotest.dev/pkg/autotest/internal/observability"
)

var goFileAdapter adapter.GoFileAdapter
var sourceFSAdapter adapter.SourceFSAdapter
var reportStore adapter.ReportStore
var ui controller.UI

// workflow is built on first use; tests replace it with a mock.
var workflow domain.Workflow

// reportsOutputDirFlag is a root-level flag shared by commands that read/write reports.
var reportsOutputDirFlag string

// excludePatterns is a root-level flag that filters files for applicable commands.
var excludePatterns []string

var verboseFlag bool

var shutdownTracing = func(context.Context) error { return nil }

func init() {
	configureRootFlags(rootCmd)

	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	goFileAdapter = adapter.NewLocalGoFileAdapter()
	sourceFSAdapter = adapter.NewLocalSourceFSAdapter()
	reportStore = adapter.NewReportStore()
}

const pathPatternsHelp = `Supports Go-style path patterns:
  - ./...          recursively scan current directory
  - ./pkg/...      recursively scan pkg directory
  - ./cmd ./pkg    scan multiple directories`

const rootLongDescription = `Autotest generates unit tests for Go source files with an LLM. It measures
line coverage, asks the model for tests that reach the uncovered lines, runs
them in a sandbox and repeats until a coverage threshold is met or the
iteration budget runs out.

` + pathPatternsHelp

const runLongDescription = `Generate tests for the given paths (default: current directory) and write
report.json, the accepted *_test.go files and an iteration journal into the
output directory.

` + pathPatternsHelp

const listLongDescription = `List source files and their executable line counts without generating tests.

` + pathPatternsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	return cmd
}

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "autotest",
		Short: "LLM-driven unit test generation for Go",
		Long:  rootLongDescription,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))

			shutdown, err := observability.SetupTracing(viper.GetBool(traceEnabledKey), buildVersion(), logWriter)
			if err != nil {
				return fmt.Errorf("tracing: %w", err)
			}

			shutdownTracing = shutdown

			slog.Debug("Command started", "command", cmd.CommandPath(), "config", viper.ConfigFileUsed())

			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if err := shutdownTracing(cmd.Context()); err != nil {
				slog.Warn("Failed to flush spans", "error", err)
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportsOutputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output directory for reports and generated tests",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().StringArrayVarP(&excludePatterns, excludeFlagName, "x", viper.GetStringSlice(excludeConfigKey), "exclude files matching regex (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		os.Exit(1)
	}
}

func parsePaths(args []string) []m.Path {
	if len(args) == 0 {
		return []m.Path{"."}
	}

	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}

func buildVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" {
		return "unknown"
	}

	return info.Main.Version
}

// currentWorkflow returns the injected workflow or assembles the production one.
// The LLM backend is only configured when withPipeline is set, so list and view
// work without credentials.
func currentWorkflow(withPipeline bool) (domain.Workflow, error) {
	if workflow != nil {
		return workflow, nil
	}

	deps, err := newDependencies(nil, withPipeline)
	if err != nil {
		return nil, err
	}

	return domain.NewWorkflow(sourceFSAdapter, reportStore, ui, deps.analyzer, deps.pipeline, deps.intake), nil
}

// dependencies are the domain services shared by the CLI and the HTTP server.
type dependencies struct {
	analyzer domain.Analyzer
	pipeline domain.Pipeline
	intake   *domain.Intake
}

func newDependencies(metrics *observability.Metrics, withPipeline bool) (*dependencies, error) {
	runner, err := newTestRunner()
	if err != nil {
		return nil, err
	}

	goVersion := viper.GetString(executorGoVersionKey)
	timeout := durationSetting(executorTimeoutKey, defaultExecutorTimeout)

	deps := &dependencies{
		analyzer: domain.NewAnalyzer(sourceFSAdapter, goFileAdapter, runner,
			domain.AnalyzerConfig{GoVersion: goVersion, Timeout: timeout}, metrics),
		intake: domain.NewIntake(viper.GetInt(maxIterationsLimitKey)),
	}

	if !withPipeline {
		return deps, nil
	}

	llm, err := newLLMClient()
	if err != nil {
		return nil, err
	}

	synthesizer := domain.NewSynthesizer(llm, goFileAdapter, domain.SynthesizerConfig{
		Timeout:       durationSetting(synthTimeoutKey, defaultSynthTimeout),
		Retries:       viper.GetInt(synthRetriesKey),
		Backoff:       durationSetting(synthBackoffKey, defaultSynthBackoff),
		RatePerMinute: viper.GetInt(synthRateKey),
		Temperature:   float32(viper.GetFloat64(synthTemperatureKey)),
	}, metrics)

	executor := domain.NewExecutor(sourceFSAdapter, goFileAdapter, runner,
		domain.ExecutorConfig{GoVersion: goVersion, Timeout: timeout}, metrics)

	deps.pipeline = domain.NewPipeline(deps.analyzer, synthesizer, executor, goFileAdapter, domain.PipelineConfig{
		Parallel:         viper.GetInt(synthParallelKey),
		RunTimeout:       durationSetting(runTimeoutKey, defaultRunTimeout),
		MaxPriorAttempts: domain.DefaultMaxPriorAttempts,
	}, metrics)

	return deps, nil
}

func newTestRunner() (adapter.TestRunnerAdapter, error) {
	switch sandbox := viper.GetString(executorSandboxKey); sandbox {
	case sandboxLocal, "":
		return adapter.NewLocalTestRunnerAdapter(), nil
	case sandboxDocker:
		return adapter.NewDockerTestRunnerAdapter(viper.GetString(executorDockerImageKey)), nil
	default:
		return nil, fmt.Errorf("unknown sandbox %q (want %s or %s)", sandbox, sandboxLocal, sandboxDocker)
	}
}

func newLLMClient() (adapter.LLMClient, error) {
	model := viper.GetString(synthModelKey)
	baseURL := viper.GetString(synthBaseURLKey)

	switch backend := viper.GetString(synthBackendKey); backend {
	case backendOpenAI, "":
		return adapter.NewOpenAIClient(viper.GetString(synthAPIKeyKey), baseURL, model)
	case backendOllama:
		return adapter.NewOllamaClient(baseURL, model)
	default:
		return nil, fmt.Errorf("unknown synth backend %q (want %s or %s)", backend, backendOpenAI, backendOllama)
	}
}
