package risk

import "spendguard/internal/model"

// ClassMetrics is the per-tier precision/recall breakdown on the
// held-out partition.
type ClassMetrics struct {
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Report summarizes held-out evaluation of a trained forest.
type Report struct {
	PerClass  []ClassMetrics
	Accuracy  float64
	TestSize  int
	TrainSize int
}

// ClassName returns the tier name for a per-class index in the report.
func (Report) ClassName(class int) string {
	return model.RiskLevel(class).String()
}

// Evaluate scores the forest against a labeled test set and computes
// accuracy plus per-class precision, recall, F1, and support.
func (f *Forest) Evaluate(test Dataset) Report {
	report := Report{
		PerClass: make([]ClassMetrics, f.NumClasses),
		TestSize: test.Len(),
	}
	if test.Len() == 0 {
		return report
	}

	truePos := make([]int, f.NumClasses)
	predicted := make([]int, f.NumClasses)
	actual := make([]int, f.NumClasses)

	correct := 0
	for i, x := range test.X {
		probs := f.Probabilities(x)
		pred := 0
		for c := 1; c < len(probs); c++ {
			if probs[c] > probs[pred] {
				pred = c
			}
		}

		predicted[pred]++
		actual[test.Y[i]]++
		if pred == test.Y[i] {
			truePos[pred]++
			correct++
		}
	}

	report.Accuracy = float64(correct) / float64(test.Len())
	for c := 0; c < f.NumClasses; c++ {
		m := ClassMetrics{Support: actual[c]}
		if predicted[c] > 0 {
			m.Precision = float64(truePos[c]) / float64(predicted[c])
		}
		if actual[c] > 0 {
			m.Recall = float64(truePos[c]) / float64(actual[c])
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		report.PerClass[c] = m
	}
	return report
}
