package risk

import (
	"fmt"
	"math"
	"math/rand"

	"spendguard/internal/model"
)

// NumRiskClasses is the number of output tiers (Low, Medium, High).
const NumRiskClasses = 3

// DefaultSeed keeps partitioning and training reproducible across runs.
const DefaultSeed = 42

// DefaultTestFraction is the held-out share of the labeled dataset.
const DefaultTestFraction = 0.2

// Dataset is a labeled feature matrix ready for training or evaluation.
type Dataset struct {
	X [][]float64
	Y []int
}

// Len returns the number of rows.
func (d Dataset) Len() int { return len(d.X) }

// DatasetFromProfiles validates every merchant's features and applies
// the label policy to build a training dataset. A malformed row aborts
// dataset construction rather than being dropped.
func DatasetFromProfiles(profiles []model.MerchantProfile) (Dataset, error) {
	ds := Dataset{
		X: make([][]float64, 0, len(profiles)),
		Y: make([]int, 0, len(profiles)),
	}
	for _, p := range profiles {
		feats := FromProfile(p)
		if err := feats.Validate(); err != nil {
			return Dataset{}, fmt.Errorf("merchant %q: %w", p.MerchantName, err)
		}
		ds.X = append(ds.X, feats.Vector())
		ds.Y = append(ds.Y, int(LabelPolicy(p)))
	}
	return ds, nil
}

// Split partitions the dataset into train and test sets with a seeded
// shuffle, so the same seed always yields the same partition.
func (d Dataset) Split(testFraction float64, seed int64) (train, test Dataset) {
	n := d.Len()
	perm := rand.New(rand.NewSource(seed)).Perm(n)

	nTest := int(math.Round(float64(n) * testFraction))
	if nTest >= n {
		nTest = n - 1
	}
	if nTest < 0 {
		nTest = 0
	}

	for i, idx := range perm {
		if i < nTest {
			test.X = append(test.X, d.X[idx])
			test.Y = append(test.Y, d.Y[idx])
		} else {
			train.X = append(train.X, d.X[idx])
			train.Y = append(train.Y, d.Y[idx])
		}
	}
	return train, test
}
