package nutrition

import "math"

// Intake is what was actually eaten over a period, summed from logged items.
type Intake struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// FallbackTargets stand in for a user who has not saved targets yet.
var FallbackTargets = MacroTargets{Calories: 2000, ProteinG: 150, CarbsG: 250, FatG: 70}

// NutrientProgress is current intake against target for one nutrient.
// Percent is capped at 100; Remaining is zero once the target is reached.
type NutrientProgress struct {
	Name      string `json:"name"`
	Unit      string `json:"unit"`
	Current   int    `json:"current"`
	Target    int    `json:"target"`
	Percent   int    `json:"percent"`
	Remaining int    `json:"remaining"`
	Reached   bool   `json:"reached"`
}

// Progress compares a current amount with a target. A negative current
// amount counts as zero, so Remaining never exceeds Target.
func Progress(name, unit string, current float64, target int) NutrientProgress {
	np := NutrientProgress{
		Name:    name,
		Unit:    unit,
		Current: int(math.Round(math.Max(current, 0))),
		Target:  target,
	}
	if target <= 0 {
		return np
	}
	pct := math.Round(float64(np.Current) / float64(target) * 100)
	np.Percent = int(math.Min(pct, 100))
	np.Reached = np.Current >= target
	if !np.Reached {
		np.Remaining = target - np.Current
	}
	return np
}

// DailyProgress reports calories, protein, carbs and fat against targets.
// Any target left at zero takes its FallbackTargets value.
func DailyProgress(in Intake, t MacroTargets) []NutrientProgress {
	if t.Calories <= 0 {
		t.Calories = FallbackTargets.Calories
	}
	if t.ProteinG <= 0 {
		t.ProteinG = FallbackTargets.ProteinG
	}
	if t.CarbsG <= 0 {
		t.CarbsG = FallbackTargets.CarbsG
	}
	if t.FatG <= 0 {
		t.FatG = FallbackTargets.FatG
	}
	return []NutrientProgress{
		Progress("calories", "kcal", in.Calories, t.Calories),
		Progress("protein", "g", in.ProteinG, t.ProteinG),
		Progress("carbs", "g", in.CarbsG, t.CarbsG),
		Progress("fat", "g", in.FatG, t.FatG),
	}
}
