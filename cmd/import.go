package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verdora-group/footprint-cli/internal/ingest"
	"github.com/verdora-group/footprint-cli/internal/model"
	"github.com/verdora-group/footprint-cli/internal/store"
)

var (
	importAssessment string
	importSheetIndex int
	importSheetName  string
)

var importCmd = &cobra.Command{
	Use:   "import <file.xlsx|file.csv>",
	Short: "Import a material inventory into an assessment",
	Long:  "Reads a spreadsheet export of the material inventory and replaces the assessment's stored materials. Site and maturation inputs are left untouched.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		path := args[0]

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		rows, err := readRows(path)
		if err != nil {
			return err
		}

		materials := ingest.MapMaterials(rows)
		if len(materials) == 0 {
			return eris.Errorf("no material rows found in %s", path)
		}

		inputs, err := st.GetInputs(ctx, importAssessment)
		if errors.Is(err, store.ErrNotFound) {
			inputs = nil
			err = nil
		}
		if err != nil {
			return err
		}
		if inputs == nil {
			inputs = &model.AssessmentInputs{}
		}
		inputs.Materials = materials

		if err := st.SaveInputs(ctx, importAssessment, inputs); err != nil {
			return err
		}

		zap.L().Info("materials imported",
			zap.String("assessment", importAssessment),
			zap.String("file", filepath.Base(path)),
			zap.Int("materials", len(materials)),
		)
		return nil
	},
}

// readRows dispatches on file extension: .xlsx via the spreadsheet reader,
// anything else is treated as CSV.
func readRows(path string) ([][]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ingest.ReadXLSX(path, ingest.XLSXOptions{
			SheetIndex: importSheetIndex,
			SheetName:  importSheetName,
		})
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	return ingest.ReadCSV(f)
}

func init() {
	importCmd.Flags().StringVar(&importAssessment, "assessment", "", "assessment ID (required)")
	importCmd.Flags().IntVar(&importSheetIndex, "sheet", 0, "XLSX sheet index")
	importCmd.Flags().StringVar(&importSheetName, "sheet-name", "", "XLSX sheet name (overrides --sheet)")
	_ = importCmd.MarkFlagRequired("assessment")
	rootCmd.AddCommand(importCmd)
}
