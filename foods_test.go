package main

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"cenarium/macro-api/nutrition"
	"github.com/gin-gonic/gin"
)

// setupFoodsTest mounts the catalog routes with a fixed user and no DB.
func setupFoodsTest(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := newTestHandler(t, nutrition.DefaultSettings())
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(userIDKey, 1)
		c.Next()
	})
	router.GET("/api/foods", h.listFoods)
	router.POST("/api/foods", h.createFood)
	router.GET("/api/foods/:id", h.getFood)
	return router
}

func TestNamePattern(t *testing.T) {
	cases := []struct {
		in   string
		want *string
	}{
		{"", nil},
		{"   ", nil},
		{"oat", ptr("%oat%")},
		{" Greek yogurt ", ptr("%Greek yogurt%")},
		{"100%", ptr(`%100\%%`)},
		{"pb_j", ptr(`%pb\_j%`)},
		{`a\b`, ptr(`%a\\b%`)},
	}
	for _, tc := range cases {
		got := namePattern(tc.in)
		switch {
		case tc.want == nil && got != nil:
			t.Errorf("namePattern(%q) = %q, want nil", tc.in, *got)
		case tc.want != nil && (got == nil || *got != *tc.want):
			t.Errorf("namePattern(%q) = %v, want %q", tc.in, got, *tc.want)
		}
	}
}

func TestCreateFoodRequest_Validate(t *testing.T) {
	valid := func() createFoodRequest {
		return createFoodRequest{
			Name: "  Banana ", Category: "fruit", ServingSizeG: 118,
			Calories: 105, ProteinG: 1.3, CarbsG: 27, FatG: 0.4, PricePerServing: ptr(0.25),
		}
	}

	ok := valid()
	if err := ok.validate(); err != nil {
		t.Fatalf("valid food rejected: %v", err)
	}
	if ok.Name != "Banana" {
		t.Errorf("name not trimmed: %q", ok.Name)
	}

	cases := []struct {
		name   string
		mutate func(*createFoodRequest)
		substr string
	}{
		{"blank name", func(r *createFoodRequest) { r.Name = "  " }, "name"},
		{"unknown category", func(r *createFoodRequest) { r.Category = "snacks" }, "category"},
		{"zero serving", func(r *createFoodRequest) { r.ServingSizeG = 0 }, "serving_size_g"},
		{"negative calories", func(r *createFoodRequest) { r.Calories = -1 }, "calories"},
		{"negative protein", func(r *createFoodRequest) { r.ProteinG = -1 }, "protein_g"},
		{"negative fat", func(r *createFoodRequest) { r.FatG = -0.1 }, "fat_g"},
		{"negative price", func(r *createFoodRequest) { r.PricePerServing = ptr(-1.0) }, "price_per_serving"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := valid()
			tc.mutate(&r)
			err := r.validate()
			if err == nil || !strings.Contains(err.Error(), tc.substr) {
				t.Errorf("validate() = %v, want error mentioning %q", err, tc.substr)
			}
		})
	}
}

func TestFoods_RejectedBeforeQuery(t *testing.T) {
	cases := []struct {
		name   string
		method string
		path   string
		body   string
		substr string
	}{
		{"unknown category filter", "GET", "/api/foods?category=candy", "", "category must be one of: dairy, fruit, vegetables, protein, fat, grains"},
		{"non-numeric id", "GET", "/api/foods/abc", "", "invalid food id"},
		{"malformed body", "POST", "/api/foods", `{"name":`, "invalid request body"},
		{"missing category", "POST", "/api/foods", `{"name":"Eggs","serving_size_g":50,"calories":70}`, "category"},
		{"negative carbs", "POST", "/api/foods", `{"name":"Eggs","category":"protein","serving_size_g":50,"carbs_g":-1}`, "carbs_g"},
	}

	router := setupFoodsTest(t)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doIntakeRequest(router, tc.method, tc.path, tc.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
			var resp map[string]string
			json.Unmarshal(w.Body.Bytes(), &resp)
			if !strings.Contains(resp["error"], tc.substr) {
				t.Errorf("error %q does not mention %q", resp["error"], tc.substr)
			}
		})
	}
}
