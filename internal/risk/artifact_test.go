package risk

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendguard/internal/common"
)

func TestArtifactRoundTrip(t *testing.T) {
	forest := trainFraudOnlyForest(t)
	path := filepath.Join(t.TempDir(), "model", "risk.gob")

	require.NoError(t, forest.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, forest, loaded, "loading must reproduce the saved forest exactly")

	// Predictions from the loaded model match bit for bit.
	for _, fraud := range []float64{0, 10, 25, 33, 47} {
		x := []float64{fraud, 0, 4}
		assert.Equal(t, forest.Probabilities(x), loaded.Probabilities(x))
	}
}

func TestLoad_MissingArtifact(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.gob"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrModelUnavailable)
}

func TestLoad_CorruptArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.gob")
	require.NoError(t, os.WriteFile(path, []byte("not a gob stream"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrModelUnavailable)
}
