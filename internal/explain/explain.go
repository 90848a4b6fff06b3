// Package explain produces per-feature attributions for risk
// classifier predictions. Attributions are tree-path additive: walking
// each tree from root to leaf, every split credits its feature with the
// change in the class distribution, so for any row the baseline plus
// the attribution sum equals the model's predicted-class probability
// exactly.
package explain

import (
	"spendguard/internal/model"
	"spendguard/internal/risk"
)

// Contribution is one feature's share of a prediction.
type Contribution struct {
	Feature string
	Value   float64
	Score   float64
}

// Explanation attributes a single prediction to the feature schema, in
// schema order. Baseline is the model's expected predicted-class
// probability over its training distribution; Baseline plus the sum of
// scores equals Probability.
type Explanation struct {
	Contributions []Contribution
	Predicted     model.RiskLevel
	Baseline      float64
	Probability   float64
}

type scoreKind int

const (
	singleOutput scoreKind = iota
	perClassOutput
)

// attribution is one score vector with its baseline.
type attribution struct {
	scores   []float64
	baseline float64
}

// rawScores is the attribution result before normalization: models with
// a single output produce one vector, multiclass models one vector per
// class. Callers always resolve to a single vector via forClass.
type rawScores struct {
	perClass []attribution
	single   attribution
	kind     scoreKind
}

func (r rawScores) forClass(class int) attribution {
	if r.kind == singleOutput {
		return r.single
	}
	return r.perClass[class]
}

// Explain attributes the forest's prediction for one feature row.
// Deterministic: a fixed model and row always produce identical scores.
func Explain(forest *risk.Forest, feats risk.Features) (Explanation, error) {
	predicted, err := forest.Predict(feats)
	if err != nil {
		return Explanation{}, err
	}

	x := feats.Vector()
	att := forestScores(forest, x).forClass(int(predicted))

	contributions := make([]Contribution, len(forest.FeatureNames))
	total := att.baseline
	for i, name := range forest.FeatureNames {
		contributions[i] = Contribution{
			Feature: name,
			Value:   x[i],
			Score:   att.scores[i],
		}
		total += att.scores[i]
	}

	return Explanation{
		Predicted:     predicted,
		Baseline:      att.baseline,
		Probability:   total,
		Contributions: contributions,
	}, nil
}

// forestScores computes attributions for every model output, averaged
// across trees.
func forestScores(forest *risk.Forest, x []float64) rawScores {
	if forest.NumClasses == 1 {
		return rawScores{
			kind:   singleOutput,
			single: classAttribution(forest, x, 0),
		}
	}

	raw := rawScores{
		kind:     perClassOutput,
		perClass: make([]attribution, forest.NumClasses),
	}
	for c := 0; c < forest.NumClasses; c++ {
		raw.perClass[c] = classAttribution(forest, x, c)
	}
	return raw
}

func classAttribution(forest *risk.Forest, x []float64, class int) attribution {
	att := attribution{scores: make([]float64, len(forest.FeatureNames))}
	for _, tree := range forest.Trees {
		path := tree.Walk(x)
		att.baseline += tree.Nodes[path[0]].Distribution[class]
		for i := 0; i+1 < len(path); i++ {
			parent := tree.Nodes[path[i]]
			child := tree.Nodes[path[i+1]]
			att.scores[parent.Feature] += child.Distribution[class] - parent.Distribution[class]
		}
	}

	n := float64(len(forest.Trees))
	att.baseline /= n
	for i := range att.scores {
		att.scores[i] /= n
	}
	return att
}
