package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/plpstats/plpstats/internal/validation"
)

// z95 is the two-sided standard normal quantile for a 95% interval.
const z95 = 1.96

// AUCResult is the AUC point estimate with its Hanley–McNeil 95% interval.
type AUCResult struct {
	AUC       float64 `json:"auc"`
	Lower     float64 `json:"lower"`
	Upper     float64 `json:"upper"`
	StdErr    float64 `json:"std_err"`
	Positives int     `json:"positives"`
	Negatives int     `json:"negatives"`
}

// Triple returns the result as (auc, lower, upper).
func (r AUCResult) Triple() (float64, float64, float64) {
	return r.AUC, r.Lower, r.Upper
}

// AUC returns the area under the ROC curve: the probability that a randomly
// chosen positive (label 1) scores higher than a randomly chosen negative
// (label 0), with ties counted as one half.
//
// It uses the Mann–Whitney rank-sum form and runs in O(N log N).
func AUC(scores []float64, labels []int) (float64, error) {
	nPos, nNeg, err := validate(scores, labels)
	if err != nil {
		return 0, err
	}
	return rankAUC(scores, labels, nPos, nNeg), nil
}

// AUCWithCI returns the AUC together with a 95% confidence interval from the
// Hanley–McNeil (1982) normal approximation:
//
//	Q1 = θ/(2−θ), Q2 = 2θ²/(1+θ)
//	Var = [θ(1−θ) + (n1−1)(Q1−θ²) + (n2−1)(Q2−θ²)] / (n1·n2)
//
// Both bounds are clamped to [0, 1].
func AUCWithCI(scores []float64, labels []int) (AUCResult, error) {
	nPos, nNeg, err := validate(scores, labels)
	if err != nil {
		return AUCResult{}, err
	}

	theta := rankAUC(scores, labels, nPos, nNeg)
	se := hanleyMcNeilSE(theta, nPos, nNeg)

	return AUCResult{
		AUC:       theta,
		Lower:     math.Max(0, theta-z95*se),
		Upper:     math.Min(1, theta+z95*se),
		StdErr:    se,
		Positives: nPos,
		Negatives: nNeg,
	}, nil
}

func hanleyMcNeilSE(theta float64, nPos, nNeg int) float64 {
	n1 := float64(nPos)
	n2 := float64(nNeg)
	thetaSq := theta * theta
	q1 := theta / (2 - theta)
	q2 := 2 * thetaSq / (1 + theta)

	variance := (theta*(1-theta) + (n1-1)*(q1-thetaSq) + (n2-1)*(q2-thetaSq)) / (n1 * n2)
	if variance < 0 {
		// cancellation near θ = 0 or 1
		variance = 0
	}
	return math.Sqrt(variance)
}

// validate checks the inputs and counts each class.
func validate(scores []float64, labels []int) (nPos, nNeg int, err error) {
	if err := validation.SameLength("scores", len(scores), "labels", len(labels)); err != nil {
		return 0, 0, err
	}
	if len(scores) == 0 {
		return 0, 0, fmt.Errorf("scores: %w", ErrEmptyInput)
	}
	for i, l := range labels {
		switch l {
		case 0:
			nNeg++
		case 1:
			nPos++
		default:
			return 0, 0, fmt.Errorf("label %d at index %d: %w", l, i, ErrInvalidLabel)
		}
		if math.IsNaN(scores[i]) {
			return 0, 0, fmt.Errorf("index %d: %w", i, ErrNonFiniteScore)
		}
	}
	if nPos == 0 || nNeg == 0 {
		return 0, 0, fmt.Errorf("%d positives, %d negatives: %w", nPos, nNeg, ErrDegenerateClass)
	}
	return nPos, nNeg, nil
}

// rankAUC assumes validated input. Tied scores share the mean of the ranks
// they span, which is what gives ties a weight of one half.
func rankAUC(scores []float64, labels []int, nPos, nNeg int) float64 {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return scores[order[a]] < scores[order[b]]
	})

	var posRankSum float64
	for start := 0; start < len(order); {
		end := start + 1
		for end < len(order) && scores[order[end]] == scores[order[start]] {
			end++
		}
		// ranks are 1-based; the run covers ranks start+1..end
		midRank := float64(start+1+end) / 2
		for _, idx := range order[start:end] {
			if labels[idx] == 1 {
				posRankSum += midRank
			}
		}
		start = end
	}

	n1 := float64(nPos)
	u := posRankSum - n1*(n1+1)/2
	return u / (n1 * float64(nNeg))
}
