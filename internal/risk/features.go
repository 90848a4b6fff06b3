// Package risk implements the merchant risk classifier: a random forest
// trained on merchant profile features, with a reproducible train/test
// pipeline, held-out evaluation, and an opaque on-disk model artifact.
package risk

import (
	"fmt"
	"math"

	"spendguard/internal/common"
	"spendguard/internal/model"
)

// FeatureNames is the fixed feature schema, in wire order. The model
// artifact and the explanation engine both depend on this ordering.
var FeatureNames = []string{"FraudReports", "RefundRate", "AvgUserRating"}

// Features is one merchant's feature row.
type Features struct {
	FraudReports  float64
	RefundRate    float64
	AvgUserRating float64
}

// FromProfile extracts the feature row from a merchant profile.
func FromProfile(p model.MerchantProfile) Features {
	return Features{
		FraudReports:  float64(p.FraudReports),
		RefundRate:    p.RefundRate,
		AvgUserRating: p.AvgUserRating,
	}
}

// Vector returns the features in schema order.
func (f Features) Vector() []float64 {
	return []float64{f.FraudReports, f.RefundRate, f.AvgUserRating}
}

// Validate rejects malformed feature values. Prediction fails fast on
// bad input rather than coercing, since a silent miscoercion changes a
// risk decision.
func (f Features) Validate() error {
	for i, v := range f.Vector() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not a finite number", common.ErrMalformedFeatures, FeatureNames[i])
		}
	}
	if f.FraudReports < 0 {
		return fmt.Errorf("%w: FraudReports must be non-negative, got %v", common.ErrMalformedFeatures, f.FraudReports)
	}
	if f.RefundRate < 0 || f.RefundRate > 1 {
		return fmt.Errorf("%w: RefundRate must be in [0,1], got %v", common.ErrMalformedFeatures, f.RefundRate)
	}
	if f.AvgUserRating < 0 {
		return fmt.Errorf("%w: AvgUserRating must be non-negative, got %v", common.ErrMalformedFeatures, f.AvgUserRating)
	}
	return nil
}
