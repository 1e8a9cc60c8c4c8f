package main

import (
	"net/http"

	"cenarium/macro-api/nutrition"
	"github.com/gin-gonic/gin"
)

// macroTargetsRequest is the body for POST /api/macro-targets. Send either
// weight_kg or weight_lbs, and either height_cm or height_ft/height_in.
type macroTargetsRequest struct {
	Sex           string   `json:"sex"`
	Age           int      `json:"age"`
	WeightKG      *float64 `json:"weight_kg"`
	WeightLBS     *float64 `json:"weight_lbs"`
	HeightCM      *float64 `json:"height_cm"`
	HeightFT      *float64 `json:"height_ft"`
	HeightIN      *float64 `json:"height_in"`
	ActivityLevel string   `json:"activity_level"`
	Goal          string   `json:"goal"`
	Policy        string   `json:"policy"`
}

// macroTargetsResponse echoes the normalized profile next to its targets so
// the caller can see what imperial input was converted to.
type macroTargetsResponse struct {
	Profile nutrition.Profile      `json:"profile"`
	Targets nutrition.MacroTargets `json:"targets"`
}

// profile parses enums and normalizes units into a calculator Profile.
func (r macroTargetsRequest) profile() (nutrition.Profile, error) {
	sex, err := nutrition.ParseSex(r.Sex)
	if err != nil {
		return nutrition.Profile{}, err
	}
	activity, err := nutrition.ParseActivityLevel(r.ActivityLevel)
	if err != nil {
		return nutrition.Profile{}, err
	}
	goal, err := nutrition.ParseGoal(r.Goal)
	if err != nil {
		return nutrition.Profile{}, err
	}

	p := nutrition.Profile{Sex: sex, Age: r.Age, Activity: activity, Goal: goal}

	weight, err := nutrition.NormalizeWeight(r.WeightKG, r.WeightLBS)
	if err != nil {
		return nutrition.Profile{}, err
	}
	if weight != nil {
		p.WeightKG = *weight
	}
	height, err := nutrition.NormalizeHeight(r.HeightCM, r.HeightFT, r.HeightIN)
	if err != nil {
		return nutrition.Profile{}, err
	}
	if height != nil {
		p.HeightCM = *height
	}

	return p, nil
}

// computeMacroTargets converts a posted profile into energy and macro targets.
// POST /api/macro-targets[?policy=percentage|weight-based] (public). A policy
// in the body wins over the query string; neither means the configured default.
func (h *Handler) computeMacroTargets(c *gin.Context) {
	var req macroTargetsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := req.profile()
	if err != nil {
		calculatorError(c, err)
		return
	}

	policy := req.Policy
	if policy == "" {
		policy = c.Query("policy")
	}

	t, err := h.calc.Compute(p, nutrition.Policy(policy))
	if err != nil {
		calculatorError(c, err)
		return
	}

	c.JSON(http.StatusOK, macroTargetsResponse{Profile: p, Targets: t})
}
