package risk

import "spendguard/internal/model"

// LabelPolicy assigns the ground-truth risk tier used to construct
// training data. It is never consulted at serving time; the served tier
// always comes from the trained model.
//
// Thresholds are exclusive: exactly 40 fraud reports is not High, and
// exactly a 0.30 refund rate is not High.
func LabelPolicy(p model.MerchantProfile) model.RiskLevel {
	switch {
	case p.FraudReports > 40 || p.RefundRate > 0.30:
		return model.RiskHigh
	case p.FraudReports > 20 || p.RefundRate > 0.15:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}
