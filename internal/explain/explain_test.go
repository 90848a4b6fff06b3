package explain

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendguard/internal/common"
	"spendguard/internal/model"
	"spendguard/internal/risk"
)

func trainedForest(t *testing.T) *risk.Forest {
	t.Helper()
	profiles := make([]model.MerchantProfile, 0, 51)
	for fraud := 0; fraud <= 50; fraud++ {
		profiles = append(profiles, model.MerchantProfile{
			MerchantName:  fmt.Sprintf("merchant-%d", fraud),
			FraudReports:  fraud,
			RefundRate:    0.0,
			AvgUserRating: 4.0,
		})
	}
	ds, err := risk.DatasetFromProfiles(profiles)
	require.NoError(t, err)

	cfg := risk.DefaultTrainConfig()
	cfg.Trees = 50
	forest, err := risk.Train(ds, cfg)
	require.NoError(t, err)
	return forest
}

func TestExplain_LocalAccuracy(t *testing.T) {
	forest := trainedForest(t)

	rows := []risk.Features{
		{FraudReports: 3, RefundRate: 0.0, AvgUserRating: 4.0},
		{FraudReports: 28, RefundRate: 0.0, AvgUserRating: 4.0},
		{FraudReports: 49, RefundRate: 0.0, AvgUserRating: 4.0},
	}

	for _, feats := range rows {
		e, err := Explain(forest, feats)
		require.NoError(t, err)

		var sum float64
		for _, c := range e.Contributions {
			sum += c.Score
		}

		// Baseline plus attributions reconstructs the predicted-class
		// probability exactly, well inside the documented tolerance.
		assert.InDelta(t, e.Probability, e.Baseline+sum, 1e-9)
		assert.InDelta(t, forest.Probabilities(feats.Vector())[int(e.Predicted)], e.Probability, 1e-9)
	}
}

func TestExplain_SchemaOrderAndValues(t *testing.T) {
	forest := trainedForest(t)
	feats := risk.Features{FraudReports: 42, RefundRate: 0.0, AvgUserRating: 4.0}

	e, err := Explain(forest, feats)
	require.NoError(t, err)
	require.Len(t, e.Contributions, len(risk.FeatureNames))

	vector := feats.Vector()
	for i, c := range e.Contributions {
		assert.Equal(t, risk.FeatureNames[i], c.Feature)
		assert.Equal(t, vector[i], c.Value)
	}
}

func TestExplain_Deterministic(t *testing.T) {
	forest := trainedForest(t)
	feats := risk.Features{FraudReports: 31, RefundRate: 0.0, AvgUserRating: 4.0}

	first, err := Explain(forest, feats)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Explain(forest, feats)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestExplain_MalformedFeatures(t *testing.T) {
	forest := trainedForest(t)
	_, err := Explain(forest, risk.Features{FraudReports: math.NaN(), RefundRate: 0.1, AvgUserRating: 4})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMalformedFeatures)
}

func TestExplain_HandBuiltStumpExactScores(t *testing.T) {
	// One tree: root splits on FraudReports at 30. The left leaf is all
	// Low, the right leaf all High; the root saw half of each.
	tree := risk.Tree{Nodes: []risk.Node{
		{Feature: 0, Threshold: 30, Left: 1, Right: 2, Distribution: []float64{0.5, 0, 0.5}},
		{Left: -1, Right: -1, Distribution: []float64{1, 0, 0}},
		{Left: -1, Right: -1, Distribution: []float64{0, 0, 1}},
	}}
	forest := &risk.Forest{
		Trees:        []risk.Tree{tree},
		FeatureNames: append([]string(nil), risk.FeatureNames...),
		NumClasses:   risk.NumRiskClasses,
	}

	e, err := Explain(forest, risk.Features{FraudReports: 45, RefundRate: 0.0, AvgUserRating: 4.0})
	require.NoError(t, err)

	assert.Equal(t, model.RiskHigh, e.Predicted)
	assert.InDelta(t, 0.5, e.Baseline, 1e-12)
	assert.InDelta(t, 1.0, e.Probability, 1e-12)

	// All credit goes to FraudReports; the untouched features score zero.
	assert.InDelta(t, 0.5, e.Contributions[0].Score, 1e-12)
	assert.Zero(t, e.Contributions[1].Score)
	assert.Zero(t, e.Contributions[2].Score)
}

func TestExplain_SingleOutputModel(t *testing.T) {
	// A degenerate single-output model exercises the Single variant of
	// the attribution result; normalization still yields one scalar per
	// feature.
	tree := risk.Tree{Nodes: []risk.Node{
		{Feature: 1, Threshold: 0.2, Left: 1, Right: 2, Distribution: []float64{0.6}},
		{Left: -1, Right: -1, Distribution: []float64{0.9}},
		{Left: -1, Right: -1, Distribution: []float64{0.1}},
	}}
	forest := &risk.Forest{
		Trees:        []risk.Tree{tree},
		FeatureNames: append([]string(nil), risk.FeatureNames...),
		NumClasses:   1,
	}

	e, err := Explain(forest, risk.Features{FraudReports: 2, RefundRate: 0.1, AvgUserRating: 4.0})
	require.NoError(t, err)
	require.Len(t, e.Contributions, 3)

	assert.InDelta(t, 0.6, e.Baseline, 1e-12)
	assert.InDelta(t, 0.9, e.Probability, 1e-12)
	assert.InDelta(t, 0.3, e.Contributions[1].Score, 1e-12)
}
