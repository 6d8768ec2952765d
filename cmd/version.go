package cmd

import (
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the version information",
		Long: `Displays the build version, the Go version used to build autotest and the
LLM backend and sandbox the current configuration selects.`,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println("autotest version\t", buildVersion())
			cmd.Println("go version\t", runtime.Version())
			cmd.Println("synth backend\t", viper.GetString(synthBackendKey), "("+viper.GetString(synthModelKey)+")")
			cmd.Println("sandbox\t", sandboxDescription())
		},
	}
}

func sandboxDescription() string {
	sandbox := viper.GetString(executorSandboxKey)
	if sandbox == sandboxDocker {
		return sandbox + " (" + viper.GetString(executorDockerImageKey) + ")"
	}

	return sandbox + " (go " + viper.GetString(executorGoVersionKey) + " module)"
}

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func init() {
	rootCmd.AddCommand(versionCmd)
}
