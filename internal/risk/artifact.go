package risk

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"spendguard/internal/common"
)

// Save serializes the trained forest to a single opaque artifact file,
// creating parent directories as needed.
func (f *Forest) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create model artifact: %w", err)
	}
	defer func() { _ = file.Close() }()

	if err := gob.NewEncoder(file).Encode(f); err != nil {
		return fmt.Errorf("failed to encode model artifact: %w", err)
	}
	return nil
}

// Load reads a model artifact from disk. A missing or corrupt artifact
// is fatal to the serving path, so both cases surface as
// ErrModelUnavailable rather than being skipped.
func Load(path string) (*Forest, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot open %s: %v", common.ErrModelUnavailable, path, err)
	}
	defer func() { _ = file.Close() }()

	var forest Forest
	if err := gob.NewDecoder(file).Decode(&forest); err != nil {
		return nil, fmt.Errorf("%w: corrupt artifact %s: %v", common.ErrModelUnavailable, path, err)
	}

	if len(forest.Trees) == 0 || forest.NumClasses != NumRiskClasses {
		return nil, fmt.Errorf("%w: artifact %s has no usable model", common.ErrModelUnavailable, path)
	}
	return &forest, nil
}
