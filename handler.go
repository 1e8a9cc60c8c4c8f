package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"cenarium/macro-api/nutrition"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Handler holds shared dependencies (db pool, calculator, logger) for all
// route handlers.
type Handler struct {
	db   *pgxpool.Pool
	calc *nutrition.Calculator
	log  *zap.Logger
	now  func() time.Time // overridable for tests; nil means time.Now
}

func (h *Handler) clock() time.Time {
	if h.now != nil {
		return h.now()
	}
	return time.Now()
}

/* ─── Database helpers ────────────────────────────────────────────────── */

// queryOne runs a query and scans the first row into T using RowToStructByName.
// Logs query and scan errors for debugging (e.g. struct/column mismatches);
// a missing row is returned as pgx.ErrNoRows without logging.
func queryOne[T any](h *Handler, c *gin.Context, sql string, args pgx.NamedArgs) (T, error) {
	rows, err := h.db.Query(c, sql, args)
	if err != nil {
		h.log.Error("[queryOne] query error", zap.Error(err))
		var zero T
		return zero, err
	}
	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		h.log.Error("[queryOne] scan error", zap.Error(err))
	}
	return result, err
}

// queryMany runs a query and scans all rows into []T using RowToStructByName.
func queryMany[T any](h *Handler, c *gin.Context, sql string, args pgx.NamedArgs) ([]T, error) {
	rows, err := h.db.Query(c, sql, args)
	if err != nil {
		h.log.Error("[queryMany] query error", zap.Error(err))
		return nil, err
	}
	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		h.log.Error("[queryMany] scan error", zap.Error(err))
	}
	return results, err
}

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// calculatorError maps a nutrition error onto a response. Bad enums and bad
// numbers are the caller's fault (400); an input set that cannot produce a
// sensible target is 422.
func calculatorError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, nutrition.ErrInvalidEnum), errors.Is(err, nutrition.ErrInvalidInput):
		apiError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, nutrition.ErrInfeasibleTarget):
		apiError(c, http.StatusUnprocessableEntity, err.Error())
	default:
		apiError(c, http.StatusInternalServerError, "failed to compute targets")
	}
}

// lookupError answers a failed single-row query: 404 with notFound when the
// row does not exist, 500 with failed for anything else.
func lookupError(c *gin.Context, err error, notFound, failed string) {
	if errors.Is(err, pgx.ErrNoRows) {
		apiError(c, http.StatusNotFound, notFound)
		return
	}
	apiError(c, http.StatusInternalServerError, failed)
}

/* ─── Server setup ────────────────────────────────────────────────────── */

// newDBPool creates a connection pool. A pool (not a single conn) survives
// the provider closing idle connections.
func newDBPool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse DB URL: %w", err)
	}
	// Simple protocol avoids "cached plan must not change result type" after
	// schema migrations.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	return pool, nil
}

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine) {
	// Public routes
	router.POST("/api/login", h.login)
	router.POST("/api/macro-targets", h.computeMacroTargets)

	// Authenticated routes
	api := router.Group("/api", h.authMiddleware())
	api.GET("/profile", h.getProfile)
	api.PATCH("/profile", h.patchProfile)
	api.GET("/foods", h.listFoods)
	api.POST("/foods", h.createFood)
	api.GET("/foods/:id", h.getFood)
	api.GET("/intake/daily", h.getDailyIntake)
	api.GET("/intake/week-summary", h.getWeekSummary)
	api.POST("/intake/items", h.createIntakeItem)
	api.PUT("/intake/items/:id", h.updateIntakeItem)
	api.DELETE("/intake/items/:id", h.deleteIntakeItem)
}
