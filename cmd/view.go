package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"autotest.dev/pkg/autotest/internal/domain"
	m "autotest.dev/pkg/autotest/internal/model"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var viewFormatFlag string

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "View a previously generated report",
		Long: `View the report of a previous run from the output directory, including the
diffs between successive revisions of each generated test file.`,
		Args: cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			output := m.Path(viper.GetString(outputFlagName))

			switch viewFormatFlag {
			case formatText, "":
				wf, err := currentWorkflow(false)
				if err != nil {
					return err
				}

				return wf.View(cmd.Context(), domain.ViewArgs{Output: output})
			case formatJSON, formatYAML:
				report, err := reportStore.LoadReport(cmd.Context(), output)
				if err != nil {
					return fmt.Errorf("load report: %w", err)
				}

				return printReport(cmd.OutOrStdout(), report, viewFormatFlag)
			default:
				return fmt.Errorf("unknown format %q (want %s, %s or %s)", viewFormatFlag, formatText, formatJSON, formatYAML)
			}
		},
	}

	cmd.Flags().StringVarP(&viewFormatFlag, formatFlagName, "f", formatText, "output format: text, json or yaml")

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}

// printReport writes report as indented JSON or as YAML with the JSON field names and order.
func printReport(w io.Writer, report m.Report, format string) error {
	raw, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	if format == formatJSON {
		_, err = fmt.Fprintln(w, string(raw))
		return err
	}

	// JSON is a YAML subset; decoding into a node keeps the key order.
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("convert report: %w", err)
	}

	blockStyle(&doc)

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	return encoder.Close()
}

func blockStyle(node *yaml.Node) {
	node.Style = 0
	for _, child := range node.Content {
		blockStyle(child)
	}
}
