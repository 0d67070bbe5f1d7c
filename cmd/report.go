package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/verdora-group/footprint-cli/internal/report"
)

var reportJSON bool

var reportCmd = &cobra.Command{
	Use:   "report <assessment-id>",
	Short: "Print the stored result for an assessment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		result, err := st.GetResult(ctx, args[0])
		if err != nil {
			return err
		}

		if reportJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		a, err := st.GetAssessment(ctx, args[0])
		if err != nil {
			return err
		}
		report.WriteSummary(cmd.OutOrStdout(), a, result)
		return nil
	},
}

func init() {
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "print the raw result JSON")
	rootCmd.AddCommand(reportCmd)
}
