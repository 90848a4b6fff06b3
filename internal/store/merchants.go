package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"spendguard/internal/common"
	"spendguard/internal/model"
)

// Merchant file column contracts. The scored file extends the plain one
// with the two prediction columns the training pipeline attaches.
var (
	merchantHeader = []string{"MerchantName", "FraudReports", "RefundRate", "AvgUserRating"}
	scoredHeader   = append(append([]string(nil), merchantHeader...), "ML_Prediction", "ML_RiskLevel")
)

// LoadMerchants reads a merchants file, plain or scored. Unlike
// transaction loading, a malformed feature value here is fatal: these
// rows feed risk classification, and silently dropping one would hide a
// risk decision.
func LoadMerchants(path string) ([]model.MerchantProfile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open merchants file: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read merchants header: %w", err)
	}
	if err := checkHeader(header, merchantHeader); err != nil {
		return nil, fmt.Errorf("merchants file %s: %w", path, err)
	}
	scored := len(header) >= len(scoredHeader) && header[4] == "ML_Prediction"

	var profiles []model.MerchantProfile
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("merchants file %s line %d: %w", path, line, err)
		}

		profile, err := parseMerchant(record, scored)
		if err != nil {
			return nil, fmt.Errorf("%w: merchants file %s line %d: %v", common.ErrMalformedFeatures, path, line, err)
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

func parseMerchant(record []string, scored bool) (model.MerchantProfile, error) {
	fraudReports, err := strconv.Atoi(record[1])
	if err != nil {
		return model.MerchantProfile{}, fmt.Errorf("bad FraudReports %q: %w", record[1], err)
	}
	refundRate, err := strconv.ParseFloat(record[2], 64)
	if err != nil {
		return model.MerchantProfile{}, fmt.Errorf("bad RefundRate %q: %w", record[2], err)
	}
	rating, err := strconv.ParseFloat(record[3], 64)
	if err != nil {
		return model.MerchantProfile{}, fmt.Errorf("bad AvgUserRating %q: %w", record[3], err)
	}

	profile := model.MerchantProfile{
		MerchantName:  record[0],
		FraudReports:  fraudReports,
		RefundRate:    refundRate,
		AvgUserRating: rating,
	}

	if scored {
		prediction, err := strconv.Atoi(record[4])
		if err != nil {
			return model.MerchantProfile{}, fmt.Errorf("bad ML_Prediction %q: %w", record[4], err)
		}
		level, err := model.ParseRiskLevel(record[5])
		if err != nil {
			return model.MerchantProfile{}, fmt.Errorf("bad ML_RiskLevel: %w", err)
		}
		if model.RiskLevel(prediction) != level {
			return model.MerchantProfile{}, fmt.Errorf("ML_Prediction %d disagrees with ML_RiskLevel %s", prediction, level)
		}
		profile.MLPrediction = level
		profile.MLRiskLevel = level.String()
		profile.Scored = true
	}
	return profile, nil
}

// SaveMerchants writes the plain merchants file.
func SaveMerchants(path string, profiles []model.MerchantProfile) error {
	return writeMerchants(path, profiles, false)
}

// SaveScoredMerchants writes the derived merchants-with-risk file.
// Every profile must already carry a prediction.
func SaveScoredMerchants(path string, profiles []model.MerchantProfile) error {
	for _, p := range profiles {
		if !p.Scored {
			return fmt.Errorf("merchant %q has no risk prediction", p.MerchantName)
		}
	}
	return writeMerchants(path, profiles, true)
}

func writeMerchants(path string, profiles []model.MerchantProfile, scored bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create merchants file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	header := merchantHeader
	if scored {
		header = scoredHeader
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write merchants header: %w", err)
	}

	for _, p := range profiles {
		record := []string{
			p.MerchantName,
			strconv.Itoa(p.FraudReports),
			strconv.FormatFloat(p.RefundRate, 'f', -1, 64),
			strconv.FormatFloat(p.AvgUserRating, 'f', -1, 64),
		}
		if scored {
			record = append(record, strconv.Itoa(int(p.MLPrediction)), p.MLRiskLevel)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write merchant %q: %w", p.MerchantName, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// FindMerchant looks a merchant up by its unique name.
func FindMerchant(profiles []model.MerchantProfile, name string) (model.MerchantProfile, error) {
	for _, p := range profiles {
		if p.MerchantName == name {
			return p, nil
		}
	}
	return model.MerchantProfile{}, fmt.Errorf("%w: %q", common.ErrMerchantNotFound, name)
}
