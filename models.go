package main

import (
	"time"

	"cenarium/macro-api/nutrition"
	"github.com/jackc/pgx/v5/pgtype"
)

// DateOnly wraps time.Time to serialize as "YYYY-MM-DD" in JSON.
type DateOnly struct{ time.Time }

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format(dateLayout) + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"`+dateLayout+`"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ScanDate implements pgtype.DateScanner so pgx can scan PostgreSQL date
// columns into DateOnly. NULL zeroes the time so *DateOnly fields can be nil.
func (d *DateOnly) ScanDate(v pgtype.Date) error {
	if !v.Valid {
		d.Time = time.Time{}
		return nil
	}
	d.Time = v.Time
	return nil
}

const dateLayout = "2006-01-02"

/* ─── Domain structs ─────────────────────────────────────────────────── */

// user maps to the users table. AuthToken and Password are hidden from JSON responses.
type user struct {
	ID        int        `json:"id" db:"id"`
	Username  string     `json:"username" db:"username"`
	Email     string     `json:"email" db:"email"`
	AuthToken string     `json:"-" db:"auth_token"`
	Password  string     `json:"-" db:"password"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// nutritionProfile maps to nutrition_profiles, one row per user. Biometric
// fields are nullable so a freshly created user still has a row; targets are
// the last saved MacroTargets (zero until first saved).
type nutritionProfile struct {
	UserID int `json:"user_id" db:"user_id"`

	Sex           *string   `json:"sex"            db:"sex"`
	DateOfBirth   *DateOnly `json:"date_of_birth"  db:"date_of_birth"`
	HeightCM      *float64  `json:"height_cm"      db:"height_cm"`
	WeightKG      *float64  `json:"weight_kg"      db:"weight_kg"`
	ActivityLevel *string   `json:"activity_level" db:"activity_level"`
	Goal          *string   `json:"goal"           db:"goal"`
	MacroPolicy   string    `json:"macro_policy"   db:"macro_policy"`
	Units         string    `json:"units"          db:"units"`
	WeeklyBudget  *float64  `json:"weekly_budget"  db:"weekly_budget"`
	TargetsAuto   bool      `json:"targets_auto"   db:"targets_auto"`
	SetupComplete bool      `json:"setup_complete" db:"setup_complete"`

	TargetCalories int `json:"target_calories"  db:"target_calories"`
	TargetProteinG int `json:"target_protein_g" db:"target_protein_g"`
	TargetCarbsG   int `json:"target_carbs_g"   db:"target_carbs_g"`
	TargetFatG     int `json:"target_fat_g"     db:"target_fat_g"`

	UpdatedAt *time.Time `json:"updated_at" db:"updated_at"`

	// Computed from the biometric fields on read; not stored.
	Age      *int                    `json:"age,omitempty"      db:"-"`
	Computed *nutrition.MacroTargets `json:"computed,omitempty" db:"-"`
}

// savedTargets returns the stored targets in calculator form.
func (p *nutritionProfile) savedTargets() nutrition.MacroTargets {
	return nutrition.MacroTargets{
		Calories: p.TargetCalories,
		ProteinG: p.TargetProteinG,
		CarbsG:   p.TargetCarbsG,
		FatG:     p.TargetFatG,
		Policy:   nutrition.Policy(p.MacroPolicy),
	}
}

// intakeItem maps to intake_items. Nullable numeric fields use pointers so
// pgx can scan NULLs and JSON omits them naturally.
type intakeItem struct {
	ID        int        `json:"id" db:"id"`
	UserID    int        `json:"user_id" db:"user_id"`
	Date      DateOnly   `json:"date" db:"date"`
	ItemName  string     `json:"item_name" db:"item_name"`
	Meal      string     `json:"meal" db:"meal"`
	Qty       *float64   `json:"qty" db:"qty"`
	Uom       *string    `json:"uom" db:"uom"`
	Calories  int        `json:"calories" db:"calories"`
	ProteinG  *float64   `json:"protein_g" db:"protein_g"`
	CarbsG    *float64   `json:"carbs_g" db:"carbs_g"`
	FatG      *float64   `json:"fat_g" db:"fat_g"`
	FoodID    *int       `json:"food_id" db:"food_id"`
	Cost      *float64   `json:"cost" db:"cost"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at" db:"updated_at"`
}

// food maps to foods, the shared catalog. Nutrition and price are per serving.
type food struct {
	ID              int        `json:"id" db:"id"`
	Name            string     `json:"name" db:"name"`
	Store           *string    `json:"store" db:"store"`
	Category        string     `json:"category" db:"category"`
	ServingSizeG    float64    `json:"serving_size_g" db:"serving_size_g"`
	Calories        int        `json:"calories" db:"calories"`
	ProteinG        float64    `json:"protein_g" db:"protein_g"`
	CarbsG          float64    `json:"carbs_g" db:"carbs_g"`
	FatG            float64    `json:"fat_g" db:"fat_g"`
	PricePerServing *float64   `json:"price_per_serving" db:"price_per_serving"`
	CreatedBy       *int       `json:"created_by" db:"created_by"`
	CreatedAt       *time.Time `json:"created_at" db:"created_at"`
}

// weekDayRow is the shape of each row returned by the week-summary GROUP BY
// query. Used only for scanning; the response uses weekDay.
type weekDayRow struct {
	Date     DateOnly `db:"date"`
	Calories int      `db:"calories"`
	ProteinG float64  `db:"protein_g"`
	CarbsG   float64  `db:"carbs_g"`
	FatG     float64  `db:"fat_g"`
	Cost     float64  `db:"cost"`
}

// weekDay is one day's entry in the week summary. Days with nothing logged
// have HasData=false and zero totals.
type weekDay struct {
	Date         DateOnly `json:"date"`
	Calories     int      `json:"calories"`
	CaloriesLeft int      `json:"calories_left"`
	ProteinG     float64  `json:"protein_g"`
	CarbsG       float64  `json:"carbs_g"`
	FatG         float64  `json:"fat_g"`
	Cost         float64  `json:"cost"`
	HasData      bool     `json:"has_data"`
}

// weekSummary is the response shape for GET /intake/week-summary. Calories is
// the week's total against seven times the daily target. BudgetLeft is nil
// when no weekly_budget is saved.
type weekSummary struct {
	WeekStart      DateOnly                   `json:"week_start"`
	TargetCalories int                        `json:"target_calories"`
	Days           []weekDay                  `json:"days"`
	Calories       nutrition.NutrientProgress `json:"calories"`
	WeeklyBudget   *float64                   `json:"weekly_budget"`
	Spent          float64                    `json:"spent"`
	BudgetLeft     *float64                   `json:"budget_left"`
	DaysTracked    int                        `json:"days_tracked"`
	AvgCalories    int                        `json:"avg_calories"`
	AvgCost        float64                    `json:"avg_cost"`
}

// dailyIntake is the response shape for GET /intake/daily.
type dailyIntake struct {
	Date     string                       `json:"date"`
	Totals   nutrition.Intake             `json:"totals"`
	Targets  nutrition.MacroTargets       `json:"targets"`
	Progress []nutrition.NutrientProgress `json:"progress"`
	Items    []intakeItem                 `json:"items"`
}

// createIntakeItemRequest is the request body for POST /api/intake/items.
// With food_id set, qty counts servings of that food and any nutrition or
// cost left out is filled from the catalog.
type createIntakeItemRequest struct {
	Date     string   `json:"date"`
	FoodID   *int     `json:"food_id"`
	ItemName string   `json:"item_name"`
	Meal     string   `json:"meal"`
	Qty      *float64 `json:"qty"`
	Uom      *string  `json:"uom"`
	Calories *int     `json:"calories"`
	ProteinG *float64 `json:"protein_g"`
	CarbsG   *float64 `json:"carbs_g"`
	FatG     *float64 `json:"fat_g"`
	Cost     *float64 `json:"cost"`
}

func (r *createIntakeItemRequest) amounts() intakeAmounts {
	return intakeAmounts{Calories: r.Calories, Qty: r.Qty, ProteinG: r.ProteinG, CarbsG: r.CarbsG, FatG: r.FatG, Cost: r.Cost}
}

// updateIntakeItemRequest is the request body for PUT /api/intake/items/:id.
// Only non-nil fields get written.
type updateIntakeItemRequest struct {
	Date     *string  `json:"date"`
	ItemName *string  `json:"item_name"`
	Meal     *string  `json:"meal"`
	Qty      *float64 `json:"qty"`
	Uom      *string  `json:"uom"`
	Calories *int     `json:"calories"`
	ProteinG *float64 `json:"protein_g"`
	CarbsG   *float64 `json:"carbs_g"`
	FatG     *float64 `json:"fat_g"`
	Cost     *float64 `json:"cost"`
}

func (r *updateIntakeItemRequest) amounts() intakeAmounts {
	return intakeAmounts{Calories: r.Calories, Qty: r.Qty, ProteinG: r.ProteinG, CarbsG: r.CarbsG, FatG: r.FatG, Cost: r.Cost}
}

// createFoodRequest is the request body for POST /api/foods.
type createFoodRequest struct {
	Name            string   `json:"name"`
	Store           *string  `json:"store"`
	Category        string   `json:"category"`
	ServingSizeG    float64  `json:"serving_size_g"`
	Calories        int      `json:"calories"`
	ProteinG        float64  `json:"protein_g"`
	CarbsG          float64  `json:"carbs_g"`
	FatG            float64  `json:"fat_g"`
	PricePerServing *float64 `json:"price_per_serving"`
}

// patchProfileRequest is the request body for PATCH /api/profile. Only
// non-nil fields get written. Weight and height may be sent in imperial
// units instead of weight_kg/height_cm; they are stored metric.
type patchProfileRequest struct {
	Sex           *string  `json:"sex"`
	DateOfBirth   *string  `json:"date_of_birth"` // YYYY-MM-DD
	HeightCM      *float64 `json:"height_cm"`
	HeightFT      *float64 `json:"height_ft"`
	HeightIN      *float64 `json:"height_in"`
	WeightKG      *float64 `json:"weight_kg"`
	WeightLBS     *float64 `json:"weight_lbs"`
	ActivityLevel *string  `json:"activity_level"`
	Goal          *string  `json:"goal"`
	MacroPolicy   *string  `json:"macro_policy"`
	Units         *string  `json:"units"`
	WeeklyBudget  *float64 `json:"weekly_budget"`
	TargetsAuto   *bool    `json:"targets_auto"`
	SetupComplete *bool    `json:"setup_complete"`
}
