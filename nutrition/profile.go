package nutrition

import (
	"math"
	"strings"
)

// Sex selects the Mifflin-St Jeor constant.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// ActivityLevel is the canonical activity enumeration. Both naming schemes
// seen in the wild ("light" and "lightly_active", ...) parse onto it.
type ActivityLevel string

const (
	Sedentary ActivityLevel = "sedentary"
	Light     ActivityLevel = "light"
	Moderate  ActivityLevel = "moderate"
	Active    ActivityLevel = "active"
	Extra     ActivityLevel = "extra"
)

// activityFactors is the single source of truth for valid activity levels
// and their TDEE multipliers.
var activityFactors = map[ActivityLevel]float64{
	Sedentary: 1.2,
	Light:     1.375,
	Moderate:  1.55,
	Active:    1.725,
	Extra:     1.9,
}

// activityAliases maps every accepted spelling to its canonical level.
// Note "very_active" is the fourth tier (1.725), not the fifth.
var activityAliases = map[string]ActivityLevel{
	"sedentary":         Sedentary,
	"light":             Light,
	"lightly_active":    Light,
	"moderate":          Moderate,
	"moderately_active": Moderate,
	"active":            Active,
	"very_active":       Active,
	"extra":             Extra,
	"extra_active":      Extra,
}

// Goal is the canonical weight goal enumeration.
type Goal string

const (
	Lose     Goal = "lose"
	Maintain Goal = "maintain"
	Gain     Goal = "gain"
)

var goalAliases = map[string]Goal{
	"lose":        Lose,
	"cutting":     Lose,
	"maintain":    Maintain,
	"maintenance": Maintain,
	"gain":        Gain,
	"bulking":     Gain,
}

// ActivityLevels lists the canonical levels from least to most active.
func ActivityLevels() []ActivityLevel {
	return []ActivityLevel{Sedentary, Light, Moderate, Active, Extra}
}

// Goals lists the canonical goals.
func Goals() []Goal {
	return []Goal{Lose, Maintain, Gain}
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ParseSex accepts "male" or "female" in any case.
func ParseSex(s string) (Sex, error) {
	switch Sex(normalizeKey(s)) {
	case SexMale:
		return SexMale, nil
	case SexFemale:
		return SexFemale, nil
	}
	return "", invalidEnum("sex", s)
}

// ParseActivityLevel resolves a short or "_active"-suffixed name to the
// canonical level. Unknown names, including the empty string, fail with
// ErrInvalidEnum.
func ParseActivityLevel(s string) (ActivityLevel, error) {
	if level, ok := activityAliases[normalizeKey(s)]; ok {
		return level, nil
	}
	return "", invalidEnum("activity_level", s)
}

// ParseGoal resolves "lose"/"cutting", "maintain"/"maintenance" and
// "gain"/"bulking" to the canonical goal.
func ParseGoal(s string) (Goal, error) {
	if goal, ok := goalAliases[normalizeKey(s)]; ok {
		return goal, nil
	}
	return "", invalidEnum("goal", s)
}

// Factor returns the TDEE multiplier for the level.
func (a ActivityLevel) Factor() (float64, error) {
	f, ok := activityFactors[a]
	if !ok {
		return 0, invalidEnum("activity_level", string(a))
	}
	return f, nil
}

// Profile is the biometric input to the calculator. Weight is kilograms and
// height centimeters; see the unit helpers for imperial input.
type Profile struct {
	Sex      Sex           `json:"sex"`
	Age      int           `json:"age"`
	WeightKG float64       `json:"weight_kg"`
	HeightCM float64       `json:"height_cm"`
	Activity ActivityLevel `json:"activity_level"`
	Goal     Goal          `json:"goal"`
}

// Plausibility limits; values past them are invalid input.
const (
	maxAge      = 130
	MaxWeightKG = 700
	MaxHeightCM = 300
)

// Validate checks every field and returns the first problem found.
func (p Profile) Validate() error {
	if p.Sex != SexMale && p.Sex != SexFemale {
		return invalidEnum("sex", string(p.Sex))
	}
	if p.Age <= 0 || p.Age > maxAge {
		return invalidInput("age", p.Age)
	}
	if !withinLimit(p.WeightKG, MaxWeightKG) {
		return invalidInput("weight_kg", p.WeightKG)
	}
	if !withinLimit(p.HeightCM, MaxHeightCM) {
		return invalidInput("height_cm", p.HeightCM)
	}
	if _, err := p.Activity.Factor(); err != nil {
		return err
	}
	switch p.Goal {
	case Lose, Maintain, Gain:
		return nil
	}
	return invalidEnum("goal", string(p.Goal))
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// withinLimit reports whether v is positive, finite and no more than limit.
func withinLimit(v, limit float64) bool {
	return positiveFinite(v) && v <= limit
}
