package main

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// foodCategories mirrors the foods.category CHECK constraint, in display order.
var foodCategories = []string{"dairy", "fruit", "vegetables", "protein", "fat", "grains"}

func validFoodCategory(s string) bool {
	for _, c := range foodCategories {
		if c == s {
			return true
		}
	}
	return false
}

var errBadCategory = errors.New("category must be one of: " + strings.Join(foodCategories, ", "))

// likeEscaper escapes LIKE wildcards so a search matches them literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// namePattern turns a search term into an ILIKE substring pattern. An empty
// term returns nil, which the query treats as "no filter".
func namePattern(q string) *string {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil
	}
	p := "%" + likeEscaper.Replace(q) + "%"
	return &p
}

// validate trims the name and checks every per-serving amount.
func (r *createFoodRequest) validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return errors.New("name is required")
	}
	if !validFoodCategory(r.Category) {
		return errBadCategory
	}
	if !(r.ServingSizeG > 0) || math.IsInf(r.ServingSizeG, 0) {
		return errors.New("serving_size_g must be positive")
	}
	if r.Calories < 0 {
		return errors.New("calories must not be negative")
	}
	if r.ProteinG < 0 || r.CarbsG < 0 || r.FatG < 0 {
		return errors.New("protein_g, carbs_g and fat_g must not be negative")
	}
	if r.PricePerServing != nil && *r.PricePerServing < 0 {
		return errors.New("price_per_serving must not be negative")
	}
	return nil
}

// listFoods returns the catalog ordered by category then name.
// GET /api/foods?category=fruit&q=apple. Both filters are optional; q is a
// case-insensitive substring match on name.
func (h *Handler) listFoods(c *gin.Context) {
	var category *string
	if s := c.Query("category"); s != "" {
		if !validFoodCategory(s) {
			apiError(c, http.StatusBadRequest, errBadCategory.Error())
			return
		}
		category = &s
	}

	foods, err := queryMany[food](h, c,
		`SELECT * FROM foods
		 WHERE (@category::text IS NULL OR category = @category)
		   AND (@pattern::text IS NULL OR name ILIKE @pattern)
		 ORDER BY category, name`,
		pgx.NamedArgs{"category": category, "pattern": namePattern(c.Query("q"))})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch foods")
		return
	}
	if foods == nil {
		foods = []food{}
	}
	c.JSON(http.StatusOK, foods)
}

// getFood returns one catalog entry.
// GET /api/foods/:id.
func (h *Handler) getFood(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid food id")
		return
	}
	f, err := queryOne[food](h, c,
		"SELECT * FROM foods WHERE id = @id",
		pgx.NamedArgs{"id": id})
	if err != nil {
		lookupError(c, err, "food not found", "failed to fetch food")
		return
	}
	c.JSON(http.StatusOK, f)
}

// createFood adds an entry to the shared catalog.
// POST /api/foods.
func (h *Handler) createFood(c *gin.Context) {
	userID := c.GetInt(userIDKey)

	var body createFoodRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := body.validate(); err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}

	f, err := queryOne[food](h, c,
		`INSERT INTO foods (name, store, category, serving_size_g, calories, protein_g, carbs_g, fat_g, price_per_serving, created_by)
		 VALUES (@name, @store, @category, @servingSizeG, @calories, @proteinG, @carbsG, @fatG, @pricePerServing, @userID)
		 RETURNING *`,
		pgx.NamedArgs{
			"name": body.Name, "store": body.Store, "category": body.Category,
			"servingSizeG": body.ServingSizeG, "calories": body.Calories,
			"proteinG": body.ProteinG, "carbsG": body.CarbsG, "fatG": body.FatG,
			"pricePerServing": body.PricePerServing, "userID": userID,
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to create food")
		return
	}

	c.JSON(http.StatusCreated, f)
}
