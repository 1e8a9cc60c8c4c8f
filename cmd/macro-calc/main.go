// CLI calculator for daily energy and macro targets.
// Usage: go run ./cmd/macro-calc --sex male --age 25 --weight-kg 70 --height-cm 175 --activity moderate --goal maintain
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"cenarium/macro-api/nutrition"
	"github.com/spf13/cobra"
)

type calcOptions struct {
	sex            string
	age            int
	weightKG       float64
	weightLBS      float64
	heightCM       float64
	heightFT       float64
	heightIN       float64
	activity       string
	goal           string
	policy         string
	settingsPath   string
	aggressiveGain bool
	asJSON         bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts calcOptions
	cmd := &cobra.Command{
		Use:   "macro-calc",
		Short: "Compute BMR, TDEE and macro targets for a profile",
		Long: `Computes Mifflin-St Jeor BMR, activity-scaled TDEE, goal-adjusted
calories and a macro split for one profile.

Weight is --weight-kg or --weight-lbs; height is --height-cm or
--height-ft/--height-in. Activity accepts sedentary, light, moderate, active,
extra (or the *_active spellings); goal accepts lose, maintain, gain (or
cutting, maintenance, bulking).`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalc(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.sex, "sex", "", "male or female")
	f.IntVar(&opts.age, "age", 0, "age in years")
	f.Float64Var(&opts.weightKG, "weight-kg", 0, "weight in kilograms")
	f.Float64Var(&opts.weightLBS, "weight-lbs", 0, "weight in pounds")
	f.Float64Var(&opts.heightCM, "height-cm", 0, "height in centimeters")
	f.Float64Var(&opts.heightFT, "height-ft", 0, "height, feet part")
	f.Float64Var(&opts.heightIN, "height-in", 0, "height, inches part")
	f.StringVar(&opts.activity, "activity", "", "activity level")
	f.StringVar(&opts.goal, "goal", "", "lose, maintain or gain")
	f.StringVar(&opts.policy, "policy", "", "macro split: percentage or weight-based (default from settings)")
	f.StringVar(&opts.settingsPath, "settings", "", "YAML calculator settings file")
	f.BoolVar(&opts.aggressiveGain, "aggressive-gain", false, "use the +500 kcal gain surplus instead of +300")
	f.BoolVar(&opts.asJSON, "json", false, "print JSON instead of a table")

	for _, name := range []string{"sex", "age", "activity", "goal"} {
		_ = cmd.MarkFlagRequired(name)
	}
	cmd.MarkFlagsMutuallyExclusive("weight-kg", "weight-lbs")
	cmd.MarkFlagsOneRequired("weight-kg", "weight-lbs")
	cmd.MarkFlagsMutuallyExclusive("height-cm", "height-ft")
	cmd.MarkFlagsMutuallyExclusive("height-cm", "height-in")
	cmd.MarkFlagsOneRequired("height-cm", "height-ft", "height-in")

	return cmd
}

func runCalc(cmd *cobra.Command, opts calcOptions) error {
	settings, err := nutrition.LoadSettings(opts.settingsPath)
	if err != nil {
		return err
	}
	if opts.aggressiveGain {
		settings.GainSurplusKcal = nutrition.AggressiveGainSurplusKcal
	}
	calc, err := nutrition.NewCalculator(settings)
	if err != nil {
		return err
	}

	p, err := opts.profile(cmd)
	if err != nil {
		return err
	}
	t, err := calc.Compute(p, nutrition.Policy(opts.policy))
	if err != nil {
		return err
	}

	if opts.asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(t)
	}
	return printTable(cmd.OutOrStdout(), p, t)
}

// profile parses enums and converts whichever unit flags were set.
func (opts calcOptions) profile(cmd *cobra.Command) (nutrition.Profile, error) {
	sex, err := nutrition.ParseSex(opts.sex)
	if err != nil {
		return nutrition.Profile{}, err
	}
	activity, err := nutrition.ParseActivityLevel(opts.activity)
	if err != nil {
		return nutrition.Profile{}, err
	}
	goal, err := nutrition.ParseGoal(opts.goal)
	if err != nil {
		return nutrition.Profile{}, err
	}

	flags := cmd.Flags()
	// set returns the flag value only when the flag was given.
	set := func(name string, v float64) *float64 {
		if !flags.Changed(name) {
			return nil
		}
		return &v
	}

	weight, err := nutrition.NormalizeWeight(set("weight-kg", opts.weightKG), set("weight-lbs", opts.weightLBS))
	if err != nil {
		return nutrition.Profile{}, err
	}
	height, err := nutrition.NormalizeHeight(set("height-cm", opts.heightCM), set("height-ft", opts.heightFT), set("height-in", opts.heightIN))
	if err != nil {
		return nutrition.Profile{}, err
	}

	// Flag groups guarantee one weight and one height form was given.
	p := nutrition.Profile{
		Sex:      sex,
		Age:      opts.age,
		WeightKG: *weight,
		HeightCM: *height,
		Activity: activity,
		Goal:     goal,
	}
	return p, nil
}

func printTable(w io.Writer, p nutrition.Profile, t nutrition.MacroTargets) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Profile\t%s, %d y, %.0f kg, %.0f cm, %s, %s\n",
		p.Sex, p.Age, p.WeightKG, p.HeightCM, p.Activity, p.Goal)
	fmt.Fprintf(tw, "BMR\t%d kcal\n", t.BMR)
	fmt.Fprintf(tw, "TDEE\t%d kcal\n", t.TDEE)
	fmt.Fprintf(tw, "Target\t%d kcal\n", t.Calories)
	fmt.Fprintf(tw, "Protein\t%d g\n", t.ProteinG)
	fmt.Fprintf(tw, "Carbs\t%d g\n", t.CarbsG)
	fmt.Fprintf(tw, "Fat\t%d g\n", t.FatG)
	fmt.Fprintf(tw, "Policy\t%s\n", t.Policy)
	return tw.Flush()
}
