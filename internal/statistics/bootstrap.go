package statistics

import (
	"fmt"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ConfidenceInterval holds the result of a bootstrap AUC interval.
type ConfidenceInterval struct {
	Lower           float64 `json:"lower"`
	Upper           float64 `json:"upper"`
	Estimate        float64 `json:"estimate"`
	ConfidenceLevel float64 `json:"confidence_level"`
	NumBootstraps   int     `json:"num_bootstraps"`
}

// DefaultBootstrapIterations is the number of bootstrap resamples.
const DefaultBootstrapIterations = 2000

// maxDrawFactor bounds how many resamples may be drawn per accepted one.
// Single-class resamples are discarded and redrawn.
const maxDrawFactor = 10

// BootstrapOptions controls BootstrapAUC.
type BootstrapOptions struct {
	// Iterations is the number of accepted resamples. Zero means
	// DefaultBootstrapIterations.
	Iterations int
	// ConfidenceLevel should be in (0, 1), e.g. 0.95.
	ConfidenceLevel float64
	// Seed makes the resampling reproducible. A negative seed uses a
	// non-deterministic source.
	Seed int64
}

// BootstrapAUC computes a percentile bootstrap confidence interval for the AUC
// by resampling (score, label) pairs with replacement. It is an alternative to
// the closed-form interval of AUCWithCI for small or unbalanced samples.
func BootstrapAUC(scores []float64, labels []int, opts BootstrapOptions) (ConfidenceInterval, error) {
	nPos, nNeg, err := validate(scores, labels)
	if err != nil {
		return ConfidenceInterval{}, err
	}
	if opts.ConfidenceLevel <= 0 || opts.ConfidenceLevel >= 1 {
		return ConfidenceInterval{}, fmt.Errorf("confidence level %v must be in (0, 1)", opts.ConfidenceLevel)
	}
	iters := opts.Iterations
	if iters <= 0 {
		iters = DefaultBootstrapIterations
	}

	var rng *rand.Rand
	if opts.Seed >= 0 {
		rng = rand.New(rand.NewSource(opts.Seed))
	} else {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	n := len(scores)
	estimate := rankAUC(scores, labels, nPos, nNeg)

	bootAUCs := make([]float64, 0, iters)
	sampleScores := make([]float64, n)
	sampleLabels := make([]int, n)
	for draws := 0; len(bootAUCs) < iters; draws++ {
		if draws >= iters*maxDrawFactor {
			return ConfidenceInterval{}, fmt.Errorf("only %d of %d resamples had both classes: %w",
				len(bootAUCs), iters, ErrDegenerateClass)
		}

		pos := 0
		for j := 0; j < n; j++ {
			k := rng.Intn(n)
			sampleScores[j] = scores[k]
			sampleLabels[j] = labels[k]
			pos += labels[k]
		}
		if pos == 0 || pos == n {
			continue
		}
		bootAUCs = append(bootAUCs, rankAUC(sampleScores, sampleLabels, pos, n-pos))
	}

	sort.Float64s(bootAUCs)

	// Percentile method; stat.Quantile requires sorted input.
	alpha := 1.0 - opts.ConfidenceLevel
	return ConfidenceInterval{
		Lower:           stat.Quantile(alpha/2, stat.Empirical, bootAUCs, nil),
		Upper:           stat.Quantile(1-alpha/2, stat.Empirical, bootAUCs, nil),
		Estimate:        estimate,
		ConfidenceLevel: opts.ConfidenceLevel,
		NumBootstraps:   iters,
	}, nil
}

// ExcludesChance returns true if the interval does not contain 0.5, i.e. the
// scores discriminate better (or worse) than chance at the interval's level.
func ExcludesChance(ci ConfidenceInterval) bool {
	return ci.Lower > 0.5 || ci.Upper < 0.5
}
