package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/verdora-group/footprint-cli/internal/model"
	"github.com/verdora-group/footprint-cli/internal/store"
)

var (
	createProduct   string
	createUnit      float64
	createUnitLabel string

	listStatus string
	listLimit  int
)

var assessmentsCmd = &cobra.Command{
	Use:   "assessments",
	Short: "Manage product assessments",
}

var assessmentsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new assessment",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		a, err := st.CreateAssessment(ctx, store.NewAssessment{
			ProductName:         createProduct,
			FunctionalUnit:      createUnit,
			FunctionalUnitLabel: createUnitLabel,
		})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(a)
	},
}

var assessmentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List assessments",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		assessments, err := st.ListAssessments(ctx, store.AssessmentFilter{
			Status: model.AssessmentStatus(listStatus),
			Limit:  listLimit,
		})
		if err != nil {
			return err
		}

		formatAssessmentsList(cmd.OutOrStdout(), assessments)
		return nil
	},
}

var assessmentsShowCmd = &cobra.Command{
	Use:   "show <assessment-id>",
	Short: "Show one assessment as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		a, err := st.GetAssessment(ctx, args[0])
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(a)
	},
}

// formatAssessmentsList writes a tabular list of assessments to out.
func formatAssessmentsList(out io.Writer, assessments []model.Assessment) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tPRODUCT\tUNIT\tSTATUS\tCREATED")
	_, _ = fmt.Fprintln(w, "--\t-------\t----\t------\t-------")

	for _, a := range assessments {
		product := a.ProductName
		if len(product) > 30 {
			product = product[:27] + "..."
		}

		unit := a.FunctionalUnitLabel
		if unit == "" {
			unit = fmt.Sprintf("%g", a.FunctionalUnit)
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			truncateID(a.ID),
			product,
			unit,
			a.Status,
			a.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	_ = w.Flush()
}

// truncateID returns the first 8 characters of a UUID for compact display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	assessmentsCreateCmd.Flags().StringVar(&createProduct, "product", "", "product name (required)")
	assessmentsCreateCmd.Flags().Float64Var(&createUnit, "unit", 1, "functional unit quantity")
	assessmentsCreateCmd.Flags().StringVar(&createUnitLabel, "unit-label", "", "functional unit label, e.g. \"700ml bottle\"")
	_ = assessmentsCreateCmd.MarkFlagRequired("product")

	assessmentsListCmd.Flags().StringVar(&listStatus, "status", "", "filter by status")
	assessmentsListCmd.Flags().IntVar(&listLimit, "limit", 0, "maximum rows (default 100)")

	assessmentsCmd.AddCommand(assessmentsCreateCmd, assessmentsListCmd, assessmentsShowCmd)
	rootCmd.AddCommand(assessmentsCmd)
}
