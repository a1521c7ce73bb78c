package main

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var analyzeOutput string

// analyzeCmd runs one recording through the pipeline without the HTTP
// server, printing the same Result the API would return.
var analyzeCmd = &cobra.Command{
	Use:   "analyze <path/to/recording>",
	Short: "Analyze a local recording and print the result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, p, err := setup()
		if err != nil {
			return err
		}

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		res, err := p.Analyze(cmd.Context(), f, args[0])
		if err != nil {
			return err
		}

		switch analyzeOutput {
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		case "yaml":
			return yaml.NewEncoder(os.Stdout).Encode(res)
		}
		return errors.Errorf("unknown output format %q", analyzeOutput)
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "json", "output format: json or yaml")
}
