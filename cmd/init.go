package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// initCmd represents the init command.
var initCmd = newInitCmd()

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a default autotest.yaml configuration file",
		Long: `Create an autotest.yaml in the current working directory populated with the
current settings so it can be edited manually. The LLM API key is left out;
provide it through AUTOTEST_SYNTH_API_KEY or OPENAI_API_KEY.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			targetPath := filepath.Join(configFolderPath, configFileName)

			if err := writeConfig(targetPath, force); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			cmd.Printf("wrote %s\n", targetPath)

			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration file")

	return cmd
}

// writeConfig snapshots the effective settings, minus credentials that may
// have come from the environment.
func writeConfig(path string, force bool) error {
	settings := viper.AllSettings()

	section, key, _ := strings.Cut(synthAPIKeyKey, ".")
	if values, ok := settings[section].(map[string]any); ok {
		delete(values, key)
	}

	out := viper.New()
	out.SetConfigType("yaml")

	if err := out.MergeConfigMap(settings); err != nil {
		return err
	}

	if force {
		return out.WriteConfigAs(path)
	}

	return out.SafeWriteConfigAs(path)
}

func init() {
	rootCmd.AddCommand(initCmd)
}
