package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/verdora-group/footprint-cli/internal/engine"
	"github.com/verdora-group/footprint-cli/internal/model"
	"github.com/verdora-group/footprint-cli/internal/report"
	"github.com/verdora-group/footprint-cli/internal/store"
)

var (
	aggregateInputFile  string
	aggregateJSON       bool
	aggregateConcurrent int
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate [assessment-id...]",
	Short: "Run the aggregation engine",
	Long:  "Computes the full impact result for stored assessments, or for an ad-hoc inputs file with --input. Results for stored assessments are persisted and the assessment is marked completed.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		eng, err := initEngine()
		if err != nil {
			return err
		}

		// Ad-hoc mode: compute from a JSON inputs file, nothing persisted.
		if aggregateInputFile != "" {
			return aggregateFile(ctx, cmd, eng)
		}

		if len(args) == 0 {
			return eris.New("provide at least one assessment ID or --input")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		results := make([]*model.AggregatedImpactResult, len(args))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(aggregateConcurrent)
		for i, id := range args {
			g.Go(func() error {
				r, err := runAggregation(gctx, st, eng, id)
				if err != nil {
					return err
				}
				results[i] = r
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		for i, r := range results {
			if aggregateJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(r); err != nil {
					return err
				}
				continue
			}
			a, err := st.GetAssessment(ctx, args[i])
			if err != nil {
				return err
			}
			report.WriteSummary(cmd.OutOrStdout(), a, r)
		}
		return nil
	},
}

// runAggregation executes the engine for one stored assessment, persisting
// the result and tracking the status transitions.
func runAggregation(ctx context.Context, st store.Store, eng *engine.Engine, id string) (*model.AggregatedImpactResult, error) {
	a, err := st.GetAssessment(ctx, id)
	if err != nil {
		return nil, err
	}
	inputs, err := st.GetInputs(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := st.UpdateAssessmentStatus(ctx, id, model.AssessmentProcessing); err != nil {
		return nil, err
	}

	result, err := eng.Aggregate(ctx, engine.Input{
		Materials:       inputs.Materials,
		Sites:           inputs.Sites,
		Maturation:      inputs.Maturation,
		FunctionalUnits: a.FunctionalUnit,
	})
	if err != nil {
		if serr := st.UpdateAssessmentStatus(ctx, id, model.AssessmentFailed); serr != nil {
			zap.L().Error("mark assessment failed",
				zap.String("assessment", id), zap.Error(serr))
		}
		return nil, eris.Wrapf(err, "aggregate assessment %s", id)
	}
	result.Assessment = id

	if err := st.SaveResult(ctx, id, result); err != nil {
		return nil, err
	}

	zap.L().Info("assessment aggregated",
		zap.String("assessment", id),
		zap.Float64("climate_kg_co2e", result.Totals.Climate),
		zap.String("quality", string(result.Quality.Rating)),
	)
	return result, nil
}

func aggregateFile(ctx context.Context, cmd *cobra.Command, eng *engine.Engine) error {
	data, err := os.ReadFile(aggregateInputFile)
	if err != nil {
		return eris.Wrapf(err, "read %s", aggregateInputFile)
	}

	var inputs model.AssessmentInputs
	if err := json.Unmarshal(data, &inputs); err != nil {
		return eris.Wrapf(err, "parse %s", aggregateInputFile)
	}

	result, err := eng.Aggregate(ctx, engine.Input{
		Materials:  inputs.Materials,
		Sites:      inputs.Sites,
		Maturation: inputs.Maturation,
	})
	if err != nil {
		return err
	}

	if aggregateJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	report.WriteSummary(cmd.OutOrStdout(), nil, result)
	return nil
}

func init() {
	aggregateCmd.Flags().StringVar(&aggregateInputFile, "input", "", "ad-hoc JSON inputs file (skips the store)")
	aggregateCmd.Flags().BoolVar(&aggregateJSON, "json", false, "print results as JSON instead of a summary")
	aggregateCmd.Flags().IntVar(&aggregateConcurrent, "concurrency", 4, "max assessments aggregated in parallel")
	rootCmd.AddCommand(aggregateCmd)
}
