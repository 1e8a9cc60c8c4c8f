package main

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"cenarium/macro-api/nutrition"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// validMeals mirrors the intake_items.meal CHECK constraint.
// Reject unknown values with 400 rather than letting the DB return a cryptic 500.
var validMeals = map[string]bool{
	"breakfast": true,
	"lunch":     true,
	"dinner":    true,
	"snack":     true,
}

// intakeAmounts are the numeric fields of an intake write. None may be negative.
type intakeAmounts struct {
	Calories *int
	Qty      *float64
	ProteinG *float64
	CarbsG   *float64
	FatG     *float64
	Cost     *float64
}

// validate names the first negative amount. Nil fields are not checked.
func (a intakeAmounts) validate() error {
	if a.Calories != nil && *a.Calories < 0 {
		return errors.New("calories must not be negative")
	}
	fields := []struct {
		name string
		v    *float64
	}{
		{"qty", a.Qty},
		{"protein_g", a.ProteinG},
		{"carbs_g", a.CarbsG},
		{"fat_g", a.FatG},
		{"cost", a.Cost},
	}
	for _, f := range fields {
		if f.v != nil && *f.v < 0 {
			return fmt.Errorf("%s must not be negative", f.name)
		}
	}
	return nil
}

// applyFood fills what the request left out from catalog food f, scaling the
// per-serving values by qty (default 1 serving). Explicit values win.
func (r *createIntakeItemRequest) applyFood(f food) {
	servings := 1.0
	if r.Qty != nil {
		servings = *r.Qty
	} else {
		r.Qty = &servings
	}
	if r.Uom == nil {
		uom := "serving"
		r.Uom = &uom
	}
	if r.ItemName == "" {
		r.ItemName = f.Name
	}
	if r.Calories == nil {
		cal := int(math.Round(float64(f.Calories) * servings))
		r.Calories = &cal
	}
	fill := func(dst **float64, perServing float64) {
		if *dst == nil {
			v := math.Round(perServing*servings*10) / 10
			*dst = &v
		}
	}
	fill(&r.ProteinG, f.ProteinG)
	fill(&r.CarbsG, f.CarbsG)
	fill(&r.FatG, f.FatG)
	if r.Cost == nil && f.PricePerServing != nil {
		cost := math.Round(*f.PricePerServing*servings*100) / 100
		r.Cost = &cost
	}
}

// summarizeIntake totals calories and macros across items. Missing macro
// values count as zero.
func summarizeIntake(items []intakeItem) nutrition.Intake {
	var in nutrition.Intake
	for _, item := range items {
		in.Calories += float64(item.Calories)
		if item.ProteinG != nil {
			in.ProteinG += *item.ProteinG
		}
		if item.CarbsG != nil {
			in.CarbsG += *item.CarbsG
		}
		if item.FatG != nil {
			in.FatG += *item.FatG
		}
	}
	return in
}

// targetsFor picks what progress is measured against: saved targets if any,
// otherwise targets computed from a complete profile. Anything still zero
// falls back inside nutrition.DailyProgress.
func (h *Handler) targetsFor(p *nutritionProfile) nutrition.MacroTargets {
	if p.TargetCalories > 0 {
		return p.savedTargets()
	}
	if t, err := h.computeTargets(p); err == nil {
		return t
	}
	return nutrition.MacroTargets{}
}

// getDailyIntake returns logged items, totals, and progress against targets.
// GET /api/intake/daily?date=YYYY-MM-DD (defaults to today).
func (h *Handler) getDailyIntake(c *gin.Context) {
	userID := c.GetInt(userIDKey)
	date := c.DefaultQuery("date", h.clock().Format(dateLayout))

	// Validate date format before querying; an invalid value silently returns no rows.
	if _, err := time.Parse(dateLayout, date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	items, err := queryMany[intakeItem](h, c,
		`SELECT * FROM intake_items
		 WHERE user_id = @userID AND date = @date
		 ORDER BY created_at`,
		pgx.NamedArgs{"userID": userID, "date": date})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch items")
		return
	}
	// Ensure items is an empty array (not null) in JSON
	if items == nil {
		items = []intakeItem{}
	}

	profile, err := queryOne[nutritionProfile](h, c,
		"SELECT * FROM nutrition_profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		return
	}

	totals := summarizeIntake(items)
	targets := h.targetsFor(&profile)

	c.JSON(http.StatusOK, dailyIntake{
		Date:     date,
		Totals:   totals,
		Targets:  targets,
		Progress: nutrition.DailyProgress(totals, targets),
		Items:    items,
	})
}

// createIntakeItem inserts a new intake entry.
// POST /api/intake/items. Defaults date to today if omitted. With food_id,
// missing nutrition and cost come from the catalog scaled by qty servings.
func (h *Handler) createIntakeItem(c *gin.Context) {
	userID := c.GetInt(userIDKey)

	var body createIntakeItemRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.ItemName == "" && body.FoodID == nil {
		apiError(c, http.StatusBadRequest, "item_name is required")
		return
	}
	if !validMeals[body.Meal] {
		apiError(c, http.StatusBadRequest, "meal must be one of: breakfast, lunch, dinner, snack")
		return
	}
	if err := body.amounts().validate(); err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}
	if body.FoodID != nil && body.Qty != nil && *body.Qty == 0 {
		apiError(c, http.StatusBadRequest, "qty must be positive when food_id is set")
		return
	}
	if body.Date == "" {
		body.Date = h.clock().Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, body.Date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	if body.FoodID != nil {
		f, err := queryOne[food](h, c,
			"SELECT * FROM foods WHERE id = @id",
			pgx.NamedArgs{"id": *body.FoodID})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				apiError(c, http.StatusBadRequest, "food_id does not exist")
			} else {
				apiError(c, http.StatusInternalServerError, "failed to fetch food")
			}
			return
		}
		body.applyFood(f)
	}
	calories := 0
	if body.Calories != nil {
		calories = *body.Calories
	}

	item, err := queryOne[intakeItem](h, c,
		`INSERT INTO intake_items (user_id, date, item_name, meal, qty, uom, calories, protein_g, carbs_g, fat_g, food_id, cost)
		 VALUES (@userID, @date, @itemName, @meal, @qty, @uom, @calories, @proteinG, @carbsG, @fatG, @foodID, @cost)
		 RETURNING *`,
		pgx.NamedArgs{
			"userID": userID, "date": body.Date, "itemName": body.ItemName,
			"meal": body.Meal, "qty": body.Qty, "uom": body.Uom,
			"calories": calories, "proteinG": body.ProteinG,
			"carbsG": body.CarbsG, "fatG": body.FatG,
			"foodID": body.FoodID, "cost": body.Cost,
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to create item")
		return
	}

	c.JSON(http.StatusCreated, item)
}

// updateIntakeItem updates an existing intake entry.
// PUT /api/intake/items/:id. Uses COALESCE so omitted fields keep their current value.
func (h *Handler) updateIntakeItem(c *gin.Context) {
	userID := c.GetInt(userIDKey)
	id := c.Param("id")

	var body updateIntakeItemRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Meal != nil && !validMeals[*body.Meal] {
		apiError(c, http.StatusBadRequest, "meal must be one of: breakfast, lunch, dinner, snack")
		return
	}
	if body.ItemName != nil && *body.ItemName == "" {
		apiError(c, http.StatusBadRequest, "item_name must not be empty")
		return
	}
	if err := body.amounts().validate(); err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}
	if body.Date != nil {
		if _, err := time.Parse(dateLayout, *body.Date); err != nil {
			apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
	}

	item, err := queryOne[intakeItem](h, c,
		`UPDATE intake_items SET
			date      = COALESCE(@date, date),
			item_name = COALESCE(@itemName, item_name),
			meal      = COALESCE(@meal, meal),
			qty       = COALESCE(@qty, qty),
			uom       = COALESCE(@uom, uom),
			calories  = COALESCE(@calories, calories),
			protein_g = COALESCE(@proteinG, protein_g),
			carbs_g   = COALESCE(@carbsG, carbs_g),
			fat_g     = COALESCE(@fatG, fat_g),
			cost      = COALESCE(@cost, cost),
			updated_at = now()
		 WHERE id = @id AND user_id = @userID
		 RETURNING *`,
		pgx.NamedArgs{
			"id": id, "userID": userID,
			"date": body.Date, "itemName": body.ItemName, "meal": body.Meal,
			"qty": body.Qty, "uom": body.Uom, "calories": body.Calories,
			"proteinG": body.ProteinG, "carbsG": body.CarbsG, "fatG": body.FatG,
			"cost": body.Cost,
		})
	if err != nil {
		lookupError(c, err, "item not found", "failed to update item")
		return
	}

	c.JSON(http.StatusOK, item)
}

// deleteIntakeItem removes an intake entry. Returns 204 on success.
// DELETE /api/intake/items/:id.
func (h *Handler) deleteIntakeItem(c *gin.Context) {
	userID := c.GetInt(userIDKey)
	id := c.Param("id")

	result, err := h.db.Exec(c,
		"DELETE FROM intake_items WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete item")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "item not found")
		return
	}

	c.Status(http.StatusNoContent)
}

// mondayOf returns midnight UTC of the Monday starting t's Mon-Sun week.
func mondayOf(t time.Time) time.Time {
	weekday := int(t.Weekday()) // 0=Sun
	if weekday == 0 {
		weekday = 7
	}
	y, m, d := t.AddDate(0, 0, 1-weekday).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// buildWeekSummary merges per-day rows into a full seven-day week starting at
// weekStart, measured against a daily calorie target and an optional money
// budget for the week. Averages cover only days with data.
func buildWeekSummary(weekStart time.Time, rows []weekDayRow, dailyTarget int, weeklyBudget *float64) weekSummary {
	if dailyTarget <= 0 {
		dailyTarget = nutrition.FallbackTargets.Calories
	}

	// Index DB rows by date string for O(1) merge.
	rowByDate := make(map[string]weekDayRow, len(rows))
	for _, r := range rows {
		rowByDate[r.Date.Time.Format(dateLayout)] = r
	}

	s := weekSummary{
		WeekStart:      DateOnly{weekStart},
		TargetCalories: dailyTarget,
		Days:           make([]weekDay, 7),
		WeeklyBudget:   weeklyBudget,
	}
	total := 0
	for i := range s.Days {
		d := weekStart.AddDate(0, 0, i)
		day := weekDay{Date: DateOnly{d}}
		if row, ok := rowByDate[d.Format(dateLayout)]; ok {
			day.HasData = true
			day.Calories = row.Calories
			day.ProteinG = row.ProteinG
			day.CarbsG = row.CarbsG
			day.FatG = row.FatG
			day.Cost = row.Cost
			s.DaysTracked++
		}
		day.CaloriesLeft = dailyTarget - day.Calories
		total += day.Calories
		s.Spent += day.Cost
		s.Days[i] = day
	}

	s.Spent = math.Round(s.Spent*100) / 100
	s.Calories = nutrition.Progress("calories", "kcal", float64(total), dailyTarget*7)
	if weeklyBudget != nil {
		left := math.Round((*weeklyBudget-s.Spent)*100) / 100
		s.BudgetLeft = &left
	}
	if s.DaysTracked > 0 {
		s.AvgCalories = int(math.Round(float64(total) / float64(s.DaysTracked)))
		s.AvgCost = math.Round(s.Spent/float64(s.DaysTracked)*100) / 100
	}
	return s
}

// getWeekSummary returns per-day totals for the Mon-Sun week containing
// week_start, with weekly calorie progress and spending against the saved
// weekly_budget. Days with no logged items are included with has_data=false.
// GET /api/intake/week-summary?week_start=YYYY-MM-DD (defaults to current week).
func (h *Handler) getWeekSummary(c *gin.Context) {
	userID := c.GetInt(userIDKey)

	weekStart := mondayOf(h.clock())
	if s := c.Query("week_start"); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			apiError(c, http.StatusBadRequest, "invalid week_start, expected YYYY-MM-DD")
			return
		}
		weekStart = mondayOf(t)
	}
	weekEnd := weekStart.AddDate(0, 0, 6)

	profile, err := queryOne[nutritionProfile](h, c,
		"SELECT * FROM nutrition_profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		return
	}

	rows, err := queryMany[weekDayRow](h, c,
		`SELECT
			date,
			SUM(calories)::int          AS calories,
			COALESCE(SUM(protein_g), 0) AS protein_g,
			COALESCE(SUM(carbs_g),   0) AS carbs_g,
			COALESCE(SUM(fat_g),     0) AS fat_g,
			COALESCE(SUM(cost),      0) AS cost
		 FROM intake_items
		 WHERE user_id = @userID AND date >= @weekStart AND date <= @weekEnd
		 GROUP BY date`,
		pgx.NamedArgs{
			"userID":    userID,
			"weekStart": weekStart.Format(dateLayout),
			"weekEnd":   weekEnd.Format(dateLayout),
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch week data")
		return
	}

	targets := h.targetsFor(&profile)
	c.JSON(http.StatusOK, buildWeekSummary(weekStart, rows, targets.Calories, profile.WeeklyBudget))
}
