package nutrition

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// maleProfile is the reference male profile: 25 years, 70 kg, 175 cm.
func maleProfile(activity ActivityLevel, goal Goal) Profile {
	return Profile{Sex: SexMale, Age: 25, WeightKG: 70, HeightCM: 175, Activity: activity, Goal: goal}
}

/* ─── Worked examples ────────────────────────────────────────────────── */

// TestComputeMacroTargets_MaleModerateMaintain checks every field for the
// reference male profile. BMR = 700 + 1093.75 - 125 + 5 = 1673.75 → 1674;
// TDEE = 1674 * 1.55 = 2594.7 → 2595.
func TestComputeMacroTargets_MaleModerateMaintain(t *testing.T) {
	got, err := ComputeMacroTargets(maleProfile(Moderate, Maintain), PolicyPercentage)
	require.NoError(t, err)
	assert.Equal(t, MacroTargets{
		BMR:      1674,
		TDEE:     2595,
		Calories: 2595,
		ProteinG: 130,
		CarbsG:   324,
		FatG:     87,
		Policy:   PolicyPercentage,
	}, got)
}

// TestComputeMacroTargets_FemaleSedentaryLose: BMR = 600 + 1031.25 - 150 - 161
// = 1320.25 → 1320; TDEE = 1584; target = 1084.
func TestComputeMacroTargets_FemaleSedentaryLose(t *testing.T) {
	p := Profile{Sex: SexFemale, Age: 30, WeightKG: 60, HeightCM: 165, Activity: Sedentary, Goal: Lose}
	got, err := ComputeMacroTargets(p, PolicyPercentage)
	require.NoError(t, err)
	assert.Equal(t, 1320, got.BMR)
	assert.Equal(t, 1584, got.TDEE)
	assert.Equal(t, 1084, got.Calories)
	assert.Equal(t, 54, got.ProteinG)
	assert.Equal(t, 136, got.CarbsG)
	assert.Equal(t, 36, got.FatG)
}

// TestComputeMacroTargets_WeightBased: protein 70*2.2 = 154 g,
// fat 2595*0.25/9 = 72.08 g, carbs (2595 - 616 - 648.75)/4 = 332.56 g.
func TestComputeMacroTargets_WeightBased(t *testing.T) {
	got, err := ComputeMacroTargets(maleProfile(Moderate, Maintain), PolicyWeightBased)
	require.NoError(t, err)
	assert.Equal(t, 2595, got.Calories)
	assert.Equal(t, 154, got.ProteinG)
	assert.Equal(t, 72, got.FatG)
	assert.Equal(t, 333, got.CarbsG)
	assert.Equal(t, PolicyWeightBased, got.Policy)
}

func TestComputeMacroTargets_EmptyPolicyUsesConfiguredDefault(t *testing.T) {
	s := DefaultSettings()
	s.Policy = PolicyWeightBased
	calc, err := NewCalculator(s)
	require.NoError(t, err)

	got, err := calc.Compute(maleProfile(Moderate, Maintain), "")
	require.NoError(t, err)
	assert.Equal(t, PolicyWeightBased, got.Policy)
}

/* ─── Goal adjustment ────────────────────────────────────────────────── */

func TestComputeMacroTargets_GoalOffsets(t *testing.T) {
	cases := []struct {
		name     string
		settings Settings
		goal     Goal
		want     int
	}{
		{"lose", DefaultSettings(), Lose, 2095},
		{"maintain", DefaultSettings(), Maintain, 2595},
		{"gain standard", DefaultSettings(), Gain, 2895},
		{"gain aggressive", AggressiveGainSettings(), Gain, 3095},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			calc, err := NewCalculator(tc.settings)
			require.NoError(t, err)
			got, err := calc.Compute(maleProfile(Moderate, tc.goal), PolicyPercentage)
			require.NoError(t, err)
			assert.Equal(t, 2595, got.TDEE)
			assert.Equal(t, tc.want, got.Calories)
		})
	}
}

/* ─── Enumerations ───────────────────────────────────────────────────── */

// TestParseActivityLevel_Aliases verifies both naming schemes land on the
// same multiplier, including "very_active" on the 1.725 tier.
func TestParseActivityLevel_Aliases(t *testing.T) {
	cases := map[string]float64{
		"sedentary":         1.2,
		"light":             1.375,
		"lightly_active":    1.375,
		"Moderate":          1.55,
		"moderately_active": 1.55,
		"active":            1.725,
		"very_active":       1.725,
		"extra":             1.9,
		" extra_active ":    1.9,
	}
	for in, want := range cases {
		level, err := ParseActivityLevel(in)
		require.NoError(t, err, in)
		f, err := level.Factor()
		require.NoError(t, err)
		assert.Equal(t, want, f, in)
	}
}

func TestParseGoal_Aliases(t *testing.T) {
	cases := map[string]Goal{
		"lose": Lose, "cutting": Lose,
		"maintain": Maintain, "maintenance": Maintain,
		"gain": Gain, "BULKING": Gain,
	}
	for in, want := range cases {
		got, err := ParseGoal(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
}

func TestParse_UnknownValues(t *testing.T) {
	_, err := ParseActivityLevel("")
	assert.ErrorIs(t, err, ErrInvalidEnum)
	_, err = ParseActivityLevel("couch")
	assert.ErrorIs(t, err, ErrInvalidEnum)
	_, err = ParseGoal("shred")
	assert.ErrorIs(t, err, ErrInvalidEnum)
	_, err = ParseSex("")
	assert.ErrorIs(t, err, ErrInvalidEnum)
	_, err = ParsePolicy("keto")
	assert.ErrorIs(t, err, ErrInvalidEnum)
}

// TestComputeMacroTargets_InvalidEnum verifies that an unrecognized enum
// surfaces as ErrInvalidEnum rather than a NaN-filled result.
func TestComputeMacroTargets_InvalidEnum(t *testing.T) {
	cases := []struct {
		name   string
		mutFn  func(p *Profile)
		policy Policy
		field  string
	}{
		{"empty activity", func(p *Profile) { p.Activity = "" }, PolicyPercentage, "activity_level"},
		{"alias activity not parsed", func(p *Profile) { p.Activity = "very_active" }, PolicyPercentage, "activity_level"},
		{"empty goal", func(p *Profile) { p.Goal = "" }, PolicyPercentage, "goal"},
		{"unknown sex", func(p *Profile) { p.Sex = "other" }, PolicyPercentage, "sex"},
		{"unknown policy", func(p *Profile) {}, "zone", "policy"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := maleProfile(Moderate, Maintain)
			tc.mutFn(&p)
			got, err := ComputeMacroTargets(p, tc.policy)
			require.ErrorIs(t, err, ErrInvalidEnum)
			assert.Zero(t, got)

			var fe *FieldError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tc.field, fe.Field)
		})
	}
}

func TestComputeMacroTargets_InvalidInput(t *testing.T) {
	cases := []struct {
		name  string
		mutFn func(p *Profile)
	}{
		{"zero age", func(p *Profile) { p.Age = 0 }},
		{"negative age", func(p *Profile) { p.Age = -3 }},
		{"implausible age", func(p *Profile) { p.Age = 200 }},
		{"zero weight", func(p *Profile) { p.WeightKG = 0 }},
		{"NaN weight", func(p *Profile) { p.WeightKG = math.NaN() }},
		{"infinite height", func(p *Profile) { p.HeightCM = math.Inf(1) }},
		{"negative height", func(p *Profile) { p.HeightCM = -175 }},
		{"implausible weight", func(p *Profile) { p.WeightKG = 701 }},
		{"huge finite weight", func(p *Profile) { p.WeightKG = 1e18 }},
		{"implausible height", func(p *Profile) { p.HeightCM = 301 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := maleProfile(Moderate, Maintain)
			tc.mutFn(&p)
			_, err := ComputeMacroTargets(p, PolicyPercentage)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestComputeMacroTargets_InfeasibleBMR(t *testing.T) {
	p := Profile{Sex: SexFemale, Age: 100, WeightKG: 20, HeightCM: 50, Activity: Sedentary, Goal: Maintain}
	_, err := ComputeMacroTargets(p, PolicyPercentage)
	assert.ErrorIs(t, err, ErrInfeasibleTarget)
}

// TestSplit_WeightBasedNegativeCarbs: 150 kg at 2.2 g/kg is 1320 kcal of
// protein alone, more than the 1200 kcal budget.
func TestSplit_WeightBasedNegativeCarbs(t *testing.T) {
	_, err := DefaultSettings().Split(1200, 150, PolicyWeightBased)
	assert.ErrorIs(t, err, ErrInfeasibleTarget)
}

func TestFieldError_Message(t *testing.T) {
	_, err := ParseActivityLevel("couch")
	require.Error(t, err)
	assert.Equal(t, `activity_level: invalid enum value (got "couch")`, err.Error())
}

/* ─── Properties ─────────────────────────────────────────────────────── */

// sampleProfiles spans sex, age, size, activity and goal.
func sampleProfiles() []Profile {
	var out []Profile
	for _, sex := range []Sex{SexMale, SexFemale} {
		for _, age := range []int{18, 35, 70} {
			for _, size := range [][2]float64{{50, 155}, {72.5, 178}, {110, 192}} {
				for _, level := range ActivityLevels() {
					for _, goal := range Goals() {
						out = append(out, Profile{
							Sex: sex, Age: age, WeightKG: size[0], HeightCM: size[1],
							Activity: level, Goal: goal,
						})
					}
				}
			}
		}
	}
	return out
}

// TestComputeMacroTargets_PercentageEnergyBalance verifies the rounded grams
// account for the target calories. Each gram figure is off by at most 0.5,
// so the worst case is 0.5*4 + 0.5*9 + 0.5*4 = 8.5 kcal.
func TestComputeMacroTargets_PercentageEnergyBalance(t *testing.T) {
	for _, p := range sampleProfiles() {
		got, err := ComputeMacroTargets(p, PolicyPercentage)
		require.NoError(t, err, "%+v", p)
		kcal := got.ProteinG*4 + got.FatG*9 + got.CarbsG*4
		assert.InDelta(t, got.Calories, kcal, 8.5, "%+v", p)
	}
}

func TestComputeMacroTargets_Deterministic(t *testing.T) {
	for _, p := range sampleProfiles() {
		for _, policy := range []Policy{PolicyPercentage, PolicyWeightBased} {
			first, err1 := ComputeMacroTargets(p, policy)
			second, err2 := ComputeMacroTargets(p, policy)
			assert.Equal(t, first, second)
			assert.Equal(t, err1, err2)
		}
	}
}

// TestComputeMacroTargets_MonotonicInActivity: a more active profile never
// gets a lower TDEE.
func TestComputeMacroTargets_MonotonicInActivity(t *testing.T) {
	prev := 0
	for _, level := range ActivityLevels() {
		got, err := ComputeMacroTargets(maleProfile(level, Maintain), PolicyPercentage)
		require.NoError(t, err)
		assert.Greater(t, got.TDEE, prev, level)
		prev = got.TDEE
	}
}

// TestCalculator_ConcurrentUse shares one Calculator across goroutines the
// way the HTTP handlers do.
func TestCalculator_ConcurrentUse(t *testing.T) {
	defer goleak.VerifyNone(t)

	calc, err := NewCalculator(DefaultSettings())
	require.NoError(t, err)
	want, err := calc.Compute(maleProfile(Moderate, Maintain), PolicyPercentage)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]MacroTargets, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = calc.Compute(maleProfile(Moderate, Maintain), PolicyPercentage)
		}()
	}
	wg.Wait()

	for i, got := range results {
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("goroutine %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}

// TestComputeMacroTargets_UpperLimits: the heaviest and tallest accepted
// profile still computes, and one step past either limit is invalid input
// rather than an overflowed target.
func TestComputeMacroTargets_UpperLimits(t *testing.T) {
	p := Profile{Sex: SexMale, Age: 1, WeightKG: MaxWeightKG, HeightCM: MaxHeightCM, Activity: Extra, Goal: Gain}
	got, err := ComputeMacroTargets(p, PolicyPercentage)
	require.NoError(t, err)
	// 7000 + 1875 - 5 + 5 = 8875; 8875 * 1.9 = 16862.5 → 16863
	assert.Equal(t, 8875, got.BMR)
	assert.Equal(t, 16863, got.TDEE)
	assert.Equal(t, 17163, got.Calories)

	p.WeightKG = 5e17
	_, err = ComputeMacroTargets(p, PolicyPercentage)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.NotErrorIs(t, err, ErrInfeasibleTarget)
}
