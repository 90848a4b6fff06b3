package model

import "fmt"

// RiskLevel is the classifier's output tier for a merchant.
type RiskLevel int

// Risk tiers, in increasing order of severity. The integer values match the
// ML_Prediction column in the derived merchants file.
const (
	RiskLow RiskLevel = iota
	RiskMedium
	RiskHigh
)

// String returns the human-readable tier name.
func (r RiskLevel) String() string {
	switch r {
	case RiskLow:
		return "Low"
	case RiskMedium:
		return "Medium"
	case RiskHigh:
		return "High"
	default:
		return fmt.Sprintf("RiskLevel(%d)", int(r))
	}
}

// ParseRiskLevel converts a tier name back to a RiskLevel.
func ParseRiskLevel(s string) (RiskLevel, error) {
	switch s {
	case "Low":
		return RiskLow, nil
	case "Medium":
		return RiskMedium, nil
	case "High":
		return RiskHigh, nil
	default:
		return 0, fmt.Errorf("unknown risk level %q", s)
	}
}

// MerchantProfile holds the risk-relevant attributes of one merchant.
// MLPrediction and MLRiskLevel are populated by the scoring pipeline and
// are absent (Scored == false) on freshly ingested profiles.
type MerchantProfile struct {
	MerchantName  string
	MLRiskLevel   string
	FraudReports  int
	MLPrediction  RiskLevel
	RefundRate    float64
	AvgUserRating float64
	Scored        bool
}

// SimulatedTransaction is one entry in a session-scoped log of ad hoc
// transactions run through the risk classifier.
type SimulatedTransaction struct {
	MerchantName string
	RiskLevel    RiskLevel
	UserID       int
	Amount       float64
}
