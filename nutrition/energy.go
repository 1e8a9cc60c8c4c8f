package nutrition

// BMR returns the Mifflin-St Jeor basal metabolic rate in kcal/day:
// 10*kg + 6.25*cm - 5*age, plus 5 for men or minus 161 for women.
// The result is not rounded.
func BMR(sex Sex, weightKG, heightCM float64, age int) float64 {
	bmr := 10*weightKG + 6.25*heightCM - 5*float64(age)
	if sex == SexMale {
		return bmr + 5
	}
	return bmr - 161
}

// TDEE scales a BMR by the activity multiplier of level.
func TDEE(bmr float64, level ActivityLevel) (float64, error) {
	factor, err := level.Factor()
	if err != nil {
		return 0, err
	}
	return bmr * factor, nil
}

// GoalOffset returns the kcal/day added to TDEE for goal (negative to lose).
func (s Settings) GoalOffset(goal Goal) (int, error) {
	switch goal {
	case Lose:
		return -s.LoseDeficitKcal, nil
	case Maintain:
		return 0, nil
	case Gain:
		return s.GainSurplusKcal, nil
	}
	return 0, invalidEnum("goal", string(goal))
}
