// Package nutrition converts a biometric profile into daily energy and
// macronutrient targets and tracks intake against them.
package nutrition

import "fmt"

// MacroTargets is the daily energy and macro target for one profile.
type MacroTargets struct {
	BMR      int    `json:"bmr"`
	TDEE     int    `json:"tdee"`
	Calories int    `json:"target_calories"`
	ProteinG int    `json:"protein_g"`
	CarbsG   int    `json:"carbs_g"`
	FatG     int    `json:"fat_g"`
	Policy   Policy `json:"policy"`
}

// Calculator computes MacroTargets under a fixed Settings. It holds no
// mutable state and is safe for concurrent use.
type Calculator struct {
	settings Settings
}

// NewCalculator validates s and returns a Calculator bound to it.
func NewCalculator(s Settings) (*Calculator, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("nutrition settings: %w", err)
	}
	return &Calculator{settings: s}, nil
}

// Settings returns a copy of the calculator's settings.
func (c *Calculator) Settings() Settings { return c.settings }

var defaultCalculator = &Calculator{settings: DefaultSettings()}

// ComputeMacroTargets computes targets with DefaultSettings.
func ComputeMacroTargets(p Profile, policy Policy) (MacroTargets, error) {
	return defaultCalculator.Compute(p, policy)
}

// Compute converts p into energy and macro targets. An empty policy means the
// calculator's configured default.
//
// TDEE is the rounded BMR times the activity factor, and the macro split
// works from the whole-number target calories. Grams are rounded once, at
// the end.
func (c *Calculator) Compute(p Profile, policy Policy) (MacroTargets, error) {
	if err := p.Validate(); err != nil {
		return MacroTargets{}, err
	}
	if policy == "" {
		policy = c.settings.Policy
	}
	policy, err := ParsePolicy(string(policy))
	if err != nil {
		return MacroTargets{}, err
	}

	bmr := roundWhole(BMR(p.Sex, p.WeightKG, p.HeightCM, p.Age))
	if bmr <= 0 {
		return MacroTargets{}, &FieldError{Field: "bmr", Value: bmr, Err: ErrInfeasibleTarget}
	}
	tdeeF, err := TDEE(float64(bmr), p.Activity)
	if err != nil {
		return MacroTargets{}, err
	}
	tdee := roundWhole(tdeeF)

	offset, err := c.settings.GoalOffset(p.Goal)
	if err != nil {
		return MacroTargets{}, err
	}
	calories := tdee + offset
	if calories <= 0 {
		return MacroTargets{}, &FieldError{Field: "target_calories", Value: calories, Err: ErrInfeasibleTarget}
	}

	grams, err := c.settings.Split(float64(calories), p.WeightKG, policy)
	if err != nil {
		return MacroTargets{}, err
	}

	return MacroTargets{
		BMR:      bmr,
		TDEE:     tdee,
		Calories: calories,
		ProteinG: roundWhole(grams.Protein),
		CarbsG:   roundWhole(grams.Carbs),
		FatG:     roundWhole(grams.Fat),
		Policy:   policy,
	}, nil
}
