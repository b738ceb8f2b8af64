package statistics

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Cohort is one named score/label sample.
type Cohort struct {
	Name   string
	Scores []float64
	Labels []int
}

// CohortResult is the AUCWithCI outcome for one cohort.
type CohortResult struct {
	Name string `json:"name"`
	AUCResult
}

// EvaluateCohorts runs AUCWithCI over each cohort with at most workers running
// at once. Results are returned in input order. The first failure cancels the
// remaining cohorts and is returned wrapped with the cohort name.
func EvaluateCohorts(ctx context.Context, cohorts []Cohort, workers int) ([]CohortResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = 1
	}

	results := make([]CohortResult, len(cohorts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, c := range cohorts {
		i, c := i, c
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := AUCWithCI(c.Scores, c.Labels)
			if err != nil {
				return fmt.Errorf("cohort %q: %w", c.Name, err)
			}
			results[i] = CohortResult{Name: c.Name, AUCResult: res}
			slog.Debug("Cohort evaluated", "cohort", c.Name, "n", len(c.Scores), "auc", res.AUC)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
