package nutrition

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Policy selects how target calories are split into macronutrient grams.
type Policy string

const (
	// PolicyPercentage splits calories by fixed shares. Canonical: the
	// resulting grams always add back up to the target calories.
	PolicyPercentage Policy = "percentage"
	// PolicyWeightBased fixes protein per kilogram of body weight and fat as a
	// share of calories, leaving the remainder to carbohydrate.
	PolicyWeightBased Policy = "weight-based"
)

// ParsePolicy accepts "percentage" and "weight-based" (or "weight_based").
func ParsePolicy(s string) (Policy, error) {
	switch normalizeKey(s) {
	case string(PolicyPercentage):
		return PolicyPercentage, nil
	case string(PolicyWeightBased), "weight_based":
		return PolicyWeightBased, nil
	}
	return "", invalidEnum("policy", s)
}

// Calorie offsets applied per goal.
const (
	DefaultLoseDeficitKcal    = 500
	StandardGainSurplusKcal   = 300
	AggressiveGainSurplusKcal = 500
)

// PercentageSplit holds the share of calories given to each macro.
type PercentageSplit struct {
	ProteinShare float64 `yaml:"protein_share"`
	CarbsShare   float64 `yaml:"carbs_share"`
	FatShare     float64 `yaml:"fat_share"`
}

// WeightBasedSplit holds the parameters of the weight-based policy.
type WeightBasedSplit struct {
	ProteinGramsPerKG float64 `yaml:"protein_g_per_kg"`
	FatShare          float64 `yaml:"fat_share"`
}

// Settings tunes the calculator. The zero value is not usable; start from
// DefaultSettings.
type Settings struct {
	LoseDeficitKcal int              `yaml:"lose_deficit_kcal"`
	GainSurplusKcal int              `yaml:"gain_surplus_kcal"`
	Policy          Policy           `yaml:"macro_policy"`
	Percentage      PercentageSplit  `yaml:"percentage"`
	WeightBased     WeightBasedSplit `yaml:"weight_based"`
}

// DefaultSettings returns the canonical configuration: -500 kcal to lose,
// +300 kcal to gain, and a 20/50/30 protein/carbs/fat percentage split.
func DefaultSettings() Settings {
	return Settings{
		LoseDeficitKcal: DefaultLoseDeficitKcal,
		GainSurplusKcal: StandardGainSurplusKcal,
		Policy:          PolicyPercentage,
		Percentage: PercentageSplit{
			ProteinShare: 0.20,
			CarbsShare:   0.50,
			FatShare:     0.30,
		},
		WeightBased: WeightBasedSplit{
			ProteinGramsPerKG: 2.2,
			FatShare:          0.25,
		},
	}
}

// AggressiveGainSettings is DefaultSettings with the +500 kcal gain surplus.
func AggressiveGainSettings() Settings {
	s := DefaultSettings()
	s.GainSurplusKcal = AggressiveGainSurplusKcal
	return s
}

// maxGoalOffsetKcal bounds the configured deficit and surplus.
const maxGoalOffsetKcal = 2000

// shareTolerance absorbs float error when checking shares sum to one.
const shareTolerance = 1e-6

// Validate rejects settings the calculator cannot apply consistently.
func (s Settings) Validate() error {
	if _, err := ParsePolicy(string(s.Policy)); err != nil {
		return err
	}
	if s.LoseDeficitKcal < 0 || s.LoseDeficitKcal > maxGoalOffsetKcal {
		return invalidInput("lose_deficit_kcal", s.LoseDeficitKcal)
	}
	if s.GainSurplusKcal < 0 || s.GainSurplusKcal > maxGoalOffsetKcal {
		return invalidInput("gain_surplus_kcal", s.GainSurplusKcal)
	}
	p := s.Percentage
	for name, share := range map[string]float64{
		"percentage.protein_share": p.ProteinShare,
		"percentage.carbs_share":   p.CarbsShare,
		"percentage.fat_share":    p.FatShare,
	} {
		if share < 0 || share > 1 {
			return invalidInput(name, share)
		}
	}
	if sum := p.ProteinShare + p.CarbsShare + p.FatShare; math.Abs(sum-1) > shareTolerance {
		return invalidInput("percentage", fmt.Sprintf("shares sum to %.4f, want 1", sum))
	}
	if !positiveFinite(s.WeightBased.ProteinGramsPerKG) {
		return invalidInput("weight_based.protein_g_per_kg", s.WeightBased.ProteinGramsPerKG)
	}
	if s.WeightBased.FatShare <= 0 || s.WeightBased.FatShare >= 1 {
		return invalidInput("weight_based.fat_share", s.WeightBased.FatShare)
	}
	return nil
}

// LoadSettings reads a YAML settings file. Keys absent from the file keep
// their DefaultSettings value; an empty path returns the defaults.
func LoadSettings(path string) (Settings, error) {
	if path == "" {
		return DefaultSettings(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("read settings %s: %w", path, err)
	}
	s, err := ParseSettings(data)
	if err != nil {
		return Settings{}, fmt.Errorf("settings %s: %w", path, err)
	}
	return s, nil
}

// ParseSettings decodes YAML on top of DefaultSettings and validates the
// result. Unknown keys are an error so a typo does not silently fall back to
// a default.
func ParseSettings(data []byte) (Settings, error) {
	s := DefaultSettings()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Settings{}, fmt.Errorf("decode: %w", err)
	}
	if s.Policy != "" {
		policy, err := ParsePolicy(string(s.Policy))
		if err != nil {
			return Settings{}, err
		}
		s.Policy = policy
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}
