package plpstats

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAUC_Scenario(t *testing.T) {
	auc, err := AUC([]float64{0.1, 0.4, 0.35, 0.8}, []int{0, 0, 1, 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.75, auc, 1e-12)

	res, err := AUCWithCI([]float64{0.1, 0.4, 0.35, 0.8}, []int{0, 0, 1, 1})
	require.NoError(t, err)
	got, lower, upper := res.Triple()
	assert.InDelta(t, 0.75, got, 1e-12)
	assert.LessOrEqual(t, lower, got)
	assert.LessOrEqual(t, got, upper)
}

func TestAUC_ShapeMismatch(t *testing.T) {
	_, err := AUC([]float64{0.1, 0.2, 0.3}, []int{0, 1})
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestGrouped_Scenario(t *testing.T) {
	sum, err := GroupedSum([]float64{1, 2, 3, 4}, []int{0, 0, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, "sum", sum.Column)
	assert.Equal(t, []Row{{Bin: 0, Value: 3}, {Bin: 1, Value: 7}}, sum.Rows)

	mx, err := GroupedMax([]float64{1, 2, 3, 4}, []int{0, 0, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, "max", mx.Column)
	assert.Equal(t, []Row{{Bin: 0, Value: 2}, {Bin: 1, Value: 4}}, mx.Rows)
}

func TestGrouped_EmptyAndMismatch(t *testing.T) {
	sum, err := GroupedSum([]float64{}, []int{})
	require.NoError(t, err)
	assert.Empty(t, sum.Rows)

	// one shape error for both components
	_, err = GroupedMax([]float64{1, 2}, []int{0})
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestEstimator_Limits(t *testing.T) {
	cfg, err := ConfigFromMap(map[string]any{
		"limits": map[string]any{"max_scores": 3, "max_values": 2},
	})
	require.NoError(t, err)
	est := New(cfg)

	_, err = est.AUC([]float64{0.1, 0.2, 0.3, 0.4}, []int{0, 1, 0, 1})
	require.ErrorIs(t, err, ErrInputTooLarge)
	_, err = est.AUCWithCI([]float64{0.1, 0.2, 0.3, 0.4}, []int{0, 1, 0, 1})
	require.ErrorIs(t, err, ErrInputTooLarge)
	_, err = est.BootstrapAUC([]float64{0.1, 0.2, 0.3, 0.4}, []int{0, 1, 0, 1})
	require.ErrorIs(t, err, ErrInputTooLarge)
	_, err = est.EvaluateCohorts(context.Background(), []Cohort{
		{Name: "small", Scores: []float64{0.1, 0.9}, Labels: []int{0, 1}},
		{Name: "large", Scores: []float64{0.1, 0.2, 0.3, 0.4}, Labels: []int{0, 1, 0, 1}},
	})
	require.ErrorIs(t, err, ErrInputTooLarge)

	_, err = est.GroupedSum([]float64{1, 2, 3}, []int{0, 0, 0})
	require.ErrorIs(t, err, ErrInputTooLarge)
	_, err = est.GroupedMaxChunks([][]float64{{1, 2}, {3}}, [][]int{{0, 0}, {0}})
	require.ErrorIs(t, err, ErrInputTooLarge)

	auc, err := est.AUC([]float64{0.1, 0.2, 0.3}, []int{0, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, 1.0, auc)

	sum, err := est.GroupedSumChunks([][]float64{{1}, {2}}, [][]int{{5}, {5}})
	require.NoError(t, err)
	assert.Equal(t, []Row{{Bin: 5, Value: 3}}, sum.Rows)
}

func TestEstimator_BootstrapUsesConfig(t *testing.T) {
	cfg, err := ConfigFromMap(map[string]any{
		"bootstrap": map[string]any{"iterations": 300, "confidence_level": 0.8, "seed": 1},
	})
	require.NoError(t, err)

	scores := []float64{0.1, 0.3, 0.2, 0.6, 0.5, 0.9, 0.4, 0.8}
	labels := []int{0, 0, 0, 1, 0, 1, 1, 1}

	ci, err := New(cfg).BootstrapAUC(scores, labels)
	require.NoError(t, err)
	assert.Equal(t, 300, ci.NumBootstraps)
	assert.Equal(t, 0.8, ci.ConfidenceLevel)

	again, err := New(cfg).BootstrapAUC(scores, labels)
	require.NoError(t, err)
	assert.Equal(t, ci, again)
}

func TestEstimator_EvaluateCohorts(t *testing.T) {
	results, err := New(nil).EvaluateCohorts(context.Background(), []Cohort{
		{Name: "a", Scores: []float64{0.1, 0.4, 0.35, 0.8}, Labels: []int{0, 0, 1, 1}},
		{Name: "b", Scores: []float64{0.5, 0.5}, Labels: []int{0, 1}},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Name)
	assert.InDelta(t, 0.75, results[0].AUC, 1e-12)
	assert.Equal(t, "b", results[1].Name)
	assert.InDelta(t, 0.5, results[1].AUC, 1e-12)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".plpstats.yaml"), []byte("limits:\n  max_values: 1\n"), 0o644))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	_, err = New(cfg).GroupedMax([]float64{1, 2}, []int{0, 1})
	require.ErrorIs(t, err, ErrInputTooLarge)
}

func TestEstimator_ZeroConfigUsesDefaults(t *testing.T) {
	est := New(&Config{})

	ci, err := est.BootstrapAUC(
		[]float64{0.1, 0.3, 0.2, 0.6, 0.5, 0.9, 0.4, 0.8},
		[]int{0, 0, 0, 1, 0, 1, 1, 1},
	)
	require.NoError(t, err)
	assert.Equal(t, 0.95, ci.ConfidenceLevel)
	assert.Equal(t, 2000, ci.NumBootstraps)

	results, err := est.EvaluateCohorts(context.Background(), []Cohort{
		{Name: "a", Scores: []float64{0.2, 0.7}, Labels: []int{0, 1}},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
}
