// Package plpstats provides the numeric primitives used to evaluate
// patient-level prediction models: the ROC AUC with confidence intervals, and
// per-bin sum/max reductions over bucketed values.
//
// The package-level functions apply no input-size limits. Use New with a
// config.Config (see Load and FromMap) to enforce limits and set bootstrap and
// cohort defaults.
package plpstats

import (
	"context"

	"github.com/plpstats/plpstats/internal/config"
	"github.com/plpstats/plpstats/internal/grouped"
	"github.com/plpstats/plpstats/internal/statistics"
)

type (
	// Config holds input limits and bootstrap/cohort defaults. Zero fields
	// fall back to the defaults when passed to New.
	Config = config.Config
	// AUCResult is an AUC with its Hanley–McNeil 95% interval.
	AUCResult = statistics.AUCResult
	// ConfidenceInterval is a bootstrap AUC interval.
	ConfidenceInterval = statistics.ConfidenceInterval
	// Cohort is one named score/label sample for EvaluateCohorts.
	Cohort = statistics.Cohort
	// CohortResult is the AUCResult for one Cohort.
	CohortResult = statistics.CohortResult
	// Table is the output of the grouped reducers, one Row per bin.
	Table = grouped.Table
	// Row is one bin and its aggregate.
	Row = grouped.Row
)

var (
	// ErrEmptyInput is returned for zero-length scores.
	ErrEmptyInput = statistics.ErrEmptyInput
	// ErrShapeMismatch is returned when parallel inputs differ in length.
	ErrShapeMismatch = statistics.ErrShapeMismatch
	// ErrDegenerateClass is returned when only one label class is present.
	ErrDegenerateClass = statistics.ErrDegenerateClass
	// ErrInvalidLabel is returned for a label outside {0, 1}.
	ErrInvalidLabel = statistics.ErrInvalidLabel
	// ErrNonFiniteScore is returned for a NaN score.
	ErrNonFiniteScore = statistics.ErrNonFiniteScore
	// ErrInvalidBin is returned for a negative bin identifier.
	ErrInvalidBin = grouped.ErrInvalidBin
	// ErrInputTooLarge is returned when an input exceeds a configured limit.
	ErrInputTooLarge = config.ErrInputTooLarge
)

// LoadConfig loads .plpstats.yaml from dir or its parents, falling back to
// defaults.
func LoadConfig(dir string) (*Config, error) {
	return config.Load(dir)
}

// ConfigFromMap builds a Config from a generic options map.
func ConfigFromMap(params map[string]any) (*Config, error) {
	return config.FromMap(params)
}

// Estimator applies a Config's limits and defaults to every call. It holds no
// mutable state and is safe for concurrent use.
type Estimator struct {
	cfg *Config
}

// New returns an Estimator for cfg. Zero fields in cfg, or a nil cfg, take
// the defaults. cfg is not modified.
func New(cfg *Config) *Estimator {
	return &Estimator{cfg: config.WithDefaults(cfg)}
}

var defaultEstimator = New(nil)

// AUC returns the area under the ROC curve of scores against binary labels.
func AUC(scores []float64, labels []int) (float64, error) {
	return defaultEstimator.AUC(scores, labels)
}

// AUCWithCI returns the AUC with its Hanley–McNeil 95% confidence interval.
func AUCWithCI(scores []float64, labels []int) (AUCResult, error) {
	return defaultEstimator.AUCWithCI(scores, labels)
}

// GroupedSum returns the per-bin sum of values, ordered by bin.
func GroupedSum(values []float64, bins []int) (Table, error) {
	return defaultEstimator.GroupedSum(values, bins)
}

// GroupedMax returns the per-bin maximum of values, ordered by bin.
func GroupedMax(values []float64, bins []int) (Table, error) {
	return defaultEstimator.GroupedMax(values, bins)
}

// AUC is AUC with the configured score limit applied.
func (e *Estimator) AUC(scores []float64, labels []int) (float64, error) {
	if err := e.cfg.Limits.CheckScores(len(scores)); err != nil {
		return 0, err
	}
	return statistics.AUC(scores, labels)
}

// AUCWithCI is AUCWithCI with the configured score limit applied.
func (e *Estimator) AUCWithCI(scores []float64, labels []int) (AUCResult, error) {
	if err := e.cfg.Limits.CheckScores(len(scores)); err != nil {
		return AUCResult{}, err
	}
	return statistics.AUCWithCI(scores, labels)
}

// BootstrapAUC returns a percentile bootstrap interval for the AUC using the
// configured iterations, confidence level and seed.
func (e *Estimator) BootstrapAUC(scores []float64, labels []int) (ConfidenceInterval, error) {
	if err := e.cfg.Limits.CheckScores(len(scores)); err != nil {
		return ConfidenceInterval{}, err
	}
	opts := statistics.BootstrapOptions{
		Iterations:      e.cfg.Bootstrap.Iterations,
		ConfidenceLevel: e.cfg.Bootstrap.ConfidenceLevel,
		Seed:            -1,
	}
	if e.cfg.Bootstrap.Seed != nil {
		opts.Seed = *e.cfg.Bootstrap.Seed
	}
	return statistics.BootstrapAUC(scores, labels, opts)
}

// EvaluateCohorts computes AUCWithCI for every cohort using the configured
// number of workers. Every cohort is checked against the limits before any
// work starts.
func (e *Estimator) EvaluateCohorts(ctx context.Context, cohorts []Cohort) ([]CohortResult, error) {
	for _, c := range cohorts {
		if err := e.cfg.Limits.CheckScores(len(c.Scores)); err != nil {
			return nil, err
		}
	}
	return statistics.EvaluateCohorts(ctx, cohorts, e.cfg.Cohorts.Workers)
}

// GroupedSum is GroupedSum with the configured value limit applied.
func (e *Estimator) GroupedSum(values []float64, bins []int) (Table, error) {
	if err := e.cfg.Limits.CheckValues(len(values)); err != nil {
		return Table{}, err
	}
	return grouped.Sum(values, bins)
}

// GroupedMax is GroupedMax with the configured value limit applied.
func (e *Estimator) GroupedMax(values []float64, bins []int) (Table, error) {
	if err := e.cfg.Limits.CheckValues(len(values)); err != nil {
		return Table{}, err
	}
	return grouped.Max(values, bins)
}

// GroupedSumChunks is GroupedSum over values and bins split into parallel
// chunks.
func (e *Estimator) GroupedSumChunks(values [][]float64, bins [][]int) (Table, error) {
	if err := e.cfg.Limits.CheckValues(chunkLen(values)); err != nil {
		return Table{}, err
	}
	return grouped.SumChunks(values, bins)
}

// GroupedMaxChunks is GroupedMax over values and bins split into parallel
// chunks.
func (e *Estimator) GroupedMaxChunks(values [][]float64, bins [][]int) (Table, error) {
	if err := e.cfg.Limits.CheckValues(chunkLen(values)); err != nil {
		return Table{}, err
	}
	return grouped.MaxChunks(values, bins)
}

func chunkLen(chunks [][]float64) int {
	var n int
	for _, c := range chunks {
		n += len(c)
	}
	return n
}
