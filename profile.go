package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cenarium/macro-api/nutrition"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// errProfileIncomplete means a required biometric field has not been saved yet.
var errProfileIncomplete = errors.New("profile incomplete")

// validUnits are the accepted display unit systems.
var validUnits = map[string]bool{"metric": true, "imperial": true}

// ageOn returns completed years between dob and now.
func ageOn(dob, now time.Time) int {
	age := now.Year() - dob.Year()
	if now.Before(dob.AddDate(age, 0, 0)) {
		age--
	}
	return age
}

// calculatorProfile builds the calculator input from the stored row. The
// profile is always passed explicitly; nothing reads a global "current user".
func (p *nutritionProfile) calculatorProfile(now time.Time) (nutrition.Profile, error) {
	if p.Sex == nil || p.DateOfBirth == nil || p.HeightCM == nil ||
		p.WeightKG == nil || p.ActivityLevel == nil || p.Goal == nil {
		return nutrition.Profile{}, errProfileIncomplete
	}
	sex, err := nutrition.ParseSex(*p.Sex)
	if err != nil {
		return nutrition.Profile{}, err
	}
	activity, err := nutrition.ParseActivityLevel(*p.ActivityLevel)
	if err != nil {
		return nutrition.Profile{}, err
	}
	goal, err := nutrition.ParseGoal(*p.Goal)
	if err != nil {
		return nutrition.Profile{}, err
	}
	return nutrition.Profile{
		Sex:      sex,
		Age:      ageOn(p.DateOfBirth.Time, now),
		WeightKG: *p.WeightKG,
		HeightCM: *p.HeightCM,
		Activity: activity,
		Goal:     goal,
	}, nil
}

// computeTargets runs the calculator over a stored profile with its saved policy.
func (h *Handler) computeTargets(p *nutritionProfile) (nutrition.MacroTargets, error) {
	in, err := p.calculatorProfile(h.clock())
	if err != nil {
		return nutrition.MacroTargets{}, err
	}
	return h.calc.Compute(in, nutrition.Policy(p.MacroPolicy))
}

// populateComputed fills the read-only Age and Computed fields. No-ops on
// an incomplete profile; a complete one that fails to compute is logged.
func (h *Handler) populateComputed(p *nutritionProfile) {
	if p.DateOfBirth != nil {
		age := ageOn(p.DateOfBirth.Time, h.clock())
		p.Age = &age
	}
	t, err := h.computeTargets(p)
	if err != nil {
		if !errors.Is(err, errProfileIncomplete) {
			h.log.Warn("[populateComputed] stored profile does not compute",
				zap.Int("user_id", p.UserID), zap.Error(err))
		}
		return
	}
	p.Computed = &t
}

// normalizePatch validates a PATCH body and rewrites it into stored form:
// enum aliases become canonical names and imperial measurements become
// metric. The returned error message is safe to show to the client.
func normalizePatch(body *patchProfileRequest, now time.Time) error {
	if body.Sex != nil {
		sex, err := nutrition.ParseSex(*body.Sex)
		if err != nil {
			return err
		}
		s := string(sex)
		body.Sex = &s
	}
	if body.ActivityLevel != nil {
		level, err := nutrition.ParseActivityLevel(*body.ActivityLevel)
		if err != nil {
			return fmt.Errorf("activity_level must be one of: sedentary, light, moderate, active, extra: %w", err)
		}
		s := string(level)
		body.ActivityLevel = &s
	}
	if body.Goal != nil {
		goal, err := nutrition.ParseGoal(*body.Goal)
		if err != nil {
			return fmt.Errorf("goal must be one of: lose, maintain, gain: %w", err)
		}
		s := string(goal)
		body.Goal = &s
	}
	if body.MacroPolicy != nil {
		policy, err := nutrition.ParsePolicy(*body.MacroPolicy)
		if err != nil {
			return fmt.Errorf("macro_policy must be percentage or weight-based: %w", err)
		}
		s := string(policy)
		body.MacroPolicy = &s
	}
	if body.Units != nil {
		u := strings.ToLower(*body.Units)
		if !validUnits[u] {
			return errors.New("units must be metric or imperial")
		}
		body.Units = &u
	}
	if body.DateOfBirth != nil {
		dob, err := time.Parse(dateLayout, *body.DateOfBirth)
		if err != nil {
			return errors.New("invalid date_of_birth, expected YYYY-MM-DD")
		}
		// Guard against implausible ages (DOB in the future, or over 130 years ago).
		if age := ageOn(dob, now); age < 0 || age > 130 {
			return errors.New("date_of_birth gives an implausible age")
		}
	}

	height, err := nutrition.NormalizeHeight(body.HeightCM, body.HeightFT, body.HeightIN)
	if err != nil {
		return err
	}
	body.HeightCM, body.HeightFT, body.HeightIN = height, nil, nil

	weight, err := nutrition.NormalizeWeight(body.WeightKG, body.WeightLBS)
	if err != nil {
		return err
	}
	body.WeightKG, body.WeightLBS = weight, nil

	if body.WeeklyBudget != nil && *body.WeeklyBudget < 0 {
		return errors.New("weekly_budget must not be negative")
	}
	return nil
}

// getProfile returns the nutrition profile for the authenticated user, with
// computed BMR/TDEE/targets when every biometric field is present.
// GET /api/profile.
func (h *Handler) getProfile(c *gin.Context) {
	userID := c.GetInt(userIDKey)

	p, err := queryOne[nutritionProfile](h, c,
		"SELECT * FROM nutrition_profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		lookupError(c, err, "profile not found", "failed to fetch profile")
		return
	}

	h.populateComputed(&p)

	c.JSON(http.StatusOK, p)
}

// patchProfile updates only the provided profile fields.
// PATCH /api/profile. When targets_auto is true after the update and the
// profile is complete, the saved targets are recomputed and persisted.
func (h *Handler) patchProfile(c *gin.Context) {
	userID := c.GetInt(userIDKey)

	var body patchProfileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := normalizePatch(&body, h.clock()); err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}

	// Build SET clause dynamically: only update fields the client actually sent
	setClauses := []string{}
	args := pgx.NamedArgs{"userID": userID}
	set := func(column, param string, value any) {
		setClauses = append(setClauses, column+" = @"+param)
		args[param] = value
	}

	if body.Sex != nil {
		set("sex", "sex", *body.Sex)
	}
	if body.DateOfBirth != nil {
		set("date_of_birth", "dateOfBirth", *body.DateOfBirth)
	}
	if body.HeightCM != nil {
		set("height_cm", "heightCM", *body.HeightCM)
	}
	if body.WeightKG != nil {
		set("weight_kg", "weightKG", *body.WeightKG)
	}
	if body.ActivityLevel != nil {
		set("activity_level", "activityLevel", *body.ActivityLevel)
	}
	if body.Goal != nil {
		set("goal", "goal", *body.Goal)
	}
	if body.MacroPolicy != nil {
		set("macro_policy", "macroPolicy", *body.MacroPolicy)
	}
	if body.Units != nil {
		set("units", "units", *body.Units)
	}
	if body.WeeklyBudget != nil {
		set("weekly_budget", "weeklyBudget", *body.WeeklyBudget)
	}
	if body.TargetsAuto != nil {
		set("targets_auto", "targetsAuto", *body.TargetsAuto)
	}
	if body.SetupComplete != nil {
		set("setup_complete", "setupComplete", *body.SetupComplete)
	}

	if len(setClauses) == 0 {
		apiError(c, http.StatusBadRequest, "no fields to update")
		return
	}

	query := "UPDATE nutrition_profiles SET " +
		strings.Join(setClauses, ", ") +
		", updated_at = now() WHERE user_id = @userID RETURNING *"

	p, err := queryOne[nutritionProfile](h, c, query, args)
	if err != nil {
		lookupError(c, err, "profile not found", "failed to update profile")
		return
	}

	if p.TargetsAuto {
		if t, err := h.computeTargets(&p); err == nil {
			updated, err := queryOne[nutritionProfile](h, c,
				`UPDATE nutrition_profiles SET
					target_calories  = @calories,
					target_protein_g = @protein,
					target_carbs_g   = @carbs,
					target_fat_g     = @fat
				 WHERE user_id = @userID RETURNING *`,
				pgx.NamedArgs{
					"calories": t.Calories, "protein": t.ProteinG,
					"carbs": t.CarbsG, "fat": t.FatG, "userID": userID,
				})
			if err != nil {
				h.log.Error("[patchProfile] auto-targets update failed",
					zap.Int("user_id", userID), zap.Error(err))
			} else {
				p = updated
			}
		}
	}

	h.populateComputed(&p)

	c.JSON(http.StatusOK, p)
}
