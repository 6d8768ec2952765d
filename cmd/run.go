package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"autotest.dev/pkg/autotest/internal/domain"
	m "autotest.dev/pkg/autotest/internal/model"
)

var runThresholdFlag int
var runMaxIterationsFlag int

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Generate tests until the coverage threshold is reached",
		Long:  runLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			wf, err := currentWorkflow(true)
			if err != nil {
				return err
			}

			report, err := wf.Run(cmd.Context(), domain.RunArgs{
				EstimateArgs: domain.EstimateArgs{
					Paths:   parsePaths(args),
					Exclude: viper.GetStringSlice(excludeConfigKey),
				},
				Output:        m.Path(viper.GetString(outputFlagName)),
				Threshold:     viper.GetInt(thresholdKey),
				MaxIterations: viper.GetInt(maxIterationsKey),
			})
			if err != nil {
				return err
			}

			if !report.Success {
				cmd.PrintErrf("threshold not reached: %s\n", report.ReviewReason)
			}

			return nil
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&runThresholdFlag, thresholdFlagName, "t", viper.GetInt(thresholdKey), "target line coverage in percent (50-100)")
	bindFlagToConfig(cmd.Flags().Lookup(thresholdFlagName), thresholdKey)

	cmd.Flags().IntVarP(&runMaxIterationsFlag, maxIterationsFlagName, "n", viper.GetInt(maxIterationsKey), "maximum number of generation iterations")
	bindFlagToConfig(cmd.Flags().Lookup(maxIterationsFlagName), maxIterationsKey)

	configureSynthFlags(cmd)
}

var synthBackendFlag string
var synthModelFlag string
var sandboxFlag string

// configureSynthFlags adds the flags that select the LLM backend and the sandbox.
func configureSynthFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&synthBackendFlag, backendFlagName, viper.GetString(synthBackendKey), "LLM backend (openai or ollama)")
	bindFlagToConfig(cmd.Flags().Lookup(backendFlagName), synthBackendKey)

	cmd.Flags().StringVar(&synthModelFlag, modelFlagName, viper.GetString(synthModelKey), "model name passed to the LLM backend")
	bindFlagToConfig(cmd.Flags().Lookup(modelFlagName), synthModelKey)

	cmd.Flags().StringVar(&sandboxFlag, sandboxFlagName, viper.GetString(executorSandboxKey), "where go test runs (local or docker)")
	bindFlagToConfig(cmd.Flags().Lookup(sandboxFlagName), executorSandboxKey)
}
