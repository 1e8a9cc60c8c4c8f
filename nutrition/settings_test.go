package nutrition

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings_Valid(t *testing.T) {
	require.NoError(t, DefaultSettings().Validate())
	require.NoError(t, AggressiveGainSettings().Validate())
	assert.Equal(t, 300, DefaultSettings().GainSurplusKcal)
	assert.Equal(t, 500, AggressiveGainSettings().GainSurplusKcal)
}

func TestParseSettings_OverridesOnTopOfDefaults(t *testing.T) {
	s, err := ParseSettings([]byte(`
gain_surplus_kcal: 500
macro_policy: weight_based
weight_based:
  protein_g_per_kg: 2.0
`))
	require.NoError(t, err)
	assert.Equal(t, 500, s.GainSurplusKcal)
	assert.Equal(t, PolicyWeightBased, s.Policy)
	assert.Equal(t, 2.0, s.WeightBased.ProteinGramsPerKG)
	// Untouched keys keep their defaults.
	assert.Equal(t, 0.25, s.WeightBased.FatShare)
	assert.Equal(t, DefaultLoseDeficitKcal, s.LoseDeficitKcal)
	assert.Equal(t, DefaultSettings().Percentage, s.Percentage)
}

func TestParseSettings_Empty(t *testing.T) {
	s, err := ParseSettings(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
}

func TestParseSettings_Rejects(t *testing.T) {
	cases := map[string]string{
		"unknown key":      "gain_surplus: 500\n",
		"bad policy":       "macro_policy: keto\n",
		"shares over one":  "percentage:\n  protein_share: 0.4\n",
		"negative deficit": "lose_deficit_kcal: -100\n",
		"huge surplus":     "gain_surplus_kcal: 1000000000000\n",
		"fat share of one": "weight_based:\n  fat_share: 1\n",
		"not yaml":         "gain_surplus_kcal: [\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSettings([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadSettings(t *testing.T) {
	s, err := LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)

	path := filepath.Join(t.TempDir(), "nutrition.yaml")
	require.NoError(t, os.WriteFile(path, []byte("lose_deficit_kcal: 400\n"), 0o600))
	s, err = LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, 400, s.LoseDeficitKcal)

	_, err = LoadSettings(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNewCalculator_RejectsInvalidSettings(t *testing.T) {
	s := DefaultSettings()
	s.Percentage.FatShare = 0.5
	_, err := NewCalculator(s)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// TestLoadSettings_ExampleFile keeps the shipped example in step with the
// built-in defaults.
func TestLoadSettings_ExampleFile(t *testing.T) {
	s, err := LoadSettings(filepath.Join("..", "nutrition.example.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
}
