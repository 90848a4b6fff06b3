// Package store loads and saves the flat-file data the analyzer works
// over: the transactions file, the merchants file, and the derived
// merchants-with-risk file.
package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"spendguard/internal/common"
	"spendguard/internal/model"
)

// transactionHeader is the fixed column contract of the transactions file.
var transactionHeader = []string{"TransactionID", "UserID", "MerchantName", "Amount", "Category", "Timestamp"}

// timestampLayouts are the accepted timestamp formats. The second layout
// covers what the original simulator emitted, with an optional
// fractional-second component.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05.999999",
	"2006-01-02",
}

// LoadTransactions reads the transactions file into memory. Rows with
// unparseable IDs, amounts, or timestamps are dropped with a warning;
// the survivors are immutable for the rest of the process.
func LoadTransactions(path string) (model.Transactions, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open transactions file: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read transactions header: %w", err)
	}
	if err := checkHeader(header, transactionHeader); err != nil {
		return nil, fmt.Errorf("transactions file %s: %w", path, err)
	}

	var txns model.Transactions
	dropped := 0
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			dropped++
			common.LogError(err, "Dropping unreadable transaction row", common.Fields{"line": line})
			continue
		}

		txn, err := parseTransaction(record)
		if err != nil {
			dropped++
			common.LogDebug("Dropping malformed transaction row", common.Fields{"line": line, "error": err.Error()})
			continue
		}
		txns = append(txns, txn)
	}

	if dropped > 0 {
		slog.Warn("Dropped malformed transaction rows", "dropped", dropped, "loaded", len(txns), "path", path)
	}
	return txns, nil
}

func parseTransaction(record []string) (model.Transaction, error) {
	id, err := strconv.Atoi(record[0])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("bad transaction ID %q: %w", record[0], err)
	}
	userID, err := strconv.Atoi(record[1])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("bad user ID %q: %w", record[1], err)
	}
	amount, err := strconv.ParseFloat(record[3], 64)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("bad amount %q: %w", record[3], err)
	}
	if amount <= 0 {
		return model.Transaction{}, fmt.Errorf("non-positive amount %v", amount)
	}
	ts, err := parseTimestamp(record[5])
	if err != nil {
		return model.Transaction{}, err
	}

	return model.Transaction{
		ID:           id,
		UserID:       userID,
		MerchantName: record[2],
		Amount:       amount,
		Category:     record[4],
		Timestamp:    ts,
	}, nil
}

func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", value)
}

// SaveTransactions writes transactions in the flat-file contract format.
func SaveTransactions(path string, txns model.Transactions) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create transactions file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	if err := writer.Write(transactionHeader); err != nil {
		return fmt.Errorf("failed to write transactions header: %w", err)
	}
	for _, t := range txns {
		record := []string{
			strconv.Itoa(t.ID),
			strconv.Itoa(t.UserID),
			t.MerchantName,
			strconv.FormatFloat(t.Amount, 'f', 2, 64),
			t.Category,
			t.Timestamp.Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write transaction %d: %w", t.ID, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func checkHeader(got, want []string) error {
	if len(got) < len(want) {
		return fmt.Errorf("expected %d columns, got %d", len(want), len(got))
	}
	for i, name := range want {
		if got[i] != name {
			return fmt.Errorf("expected column %d to be %q, got %q", i+1, name, got[i])
		}
	}
	return nil
}
