package nutrition

import "math"

// Energy density of each macronutrient, kcal per gram.
const (
	kcalPerGramProtein = 4
	kcalPerGramCarbs   = 4
	kcalPerGramFat     = 9
)

// MacroGrams is an unrounded macro split in grams/day.
type MacroGrams struct {
	Protein float64
	Carbs   float64
	Fat     float64
}

// Kcal returns the energy the split accounts for.
func (g MacroGrams) Kcal() float64 {
	return g.Protein*kcalPerGramProtein + g.Carbs*kcalPerGramCarbs + g.Fat*kcalPerGramFat
}

// Split divides calories into macro grams under policy. weightKG is only used
// by PolicyWeightBased. Grams are returned unrounded so callers round once.
func (s Settings) Split(calories, weightKG float64, policy Policy) (MacroGrams, error) {
	if !positiveFinite(calories) {
		return MacroGrams{}, &FieldError{Field: "target_calories", Value: calories, Err: ErrInfeasibleTarget}
	}
	switch policy {
	case PolicyPercentage:
		p := s.Percentage
		return MacroGrams{
			Protein: calories * p.ProteinShare / kcalPerGramProtein,
			Carbs:   calories * p.CarbsShare / kcalPerGramCarbs,
			Fat:     calories * p.FatShare / kcalPerGramFat,
		}, nil
	case PolicyWeightBased:
		if !positiveFinite(weightKG) {
			return MacroGrams{}, invalidInput("weight_kg", weightKG)
		}
		protein := weightKG * s.WeightBased.ProteinGramsPerKG
		fat := calories * s.WeightBased.FatShare / kcalPerGramFat
		carbs := (calories - protein*kcalPerGramProtein - fat*kcalPerGramFat) / kcalPerGramCarbs
		if carbs < 0 {
			return MacroGrams{}, &FieldError{Field: "carbs_g", Value: math.Round(carbs), Err: ErrInfeasibleTarget}
		}
		return MacroGrams{Protein: protein, Carbs: carbs, Fat: fat}, nil
	}
	return MacroGrams{}, invalidEnum("policy", string(policy))
}

// roundWhole rounds half away from zero after snapping to 1e-6, so float noise
// in products like 2595*0.3 cannot turn an exact .5 into .4999.
func roundWhole(v float64) int {
	return int(math.Round(math.Round(v*1e6) / 1e6))
}
