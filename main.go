package main

import (
	"context"
	"fmt"
	"os"

	"cenarium/macro-api/nutrition"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	settings, err := nutrition.LoadSettings(cfg.SettingsPath)
	if err != nil {
		logger.Fatal("load nutrition settings", zap.Error(err))
	}
	calc, err := nutrition.NewCalculator(settings)
	if err != nil {
		logger.Fatal("build calculator", zap.Error(err))
	}
	logger.Info("calculator ready",
		zap.String("macro_policy", string(settings.Policy)),
		zap.Int("gain_surplus_kcal", settings.GainSurplusKcal),
		zap.Int("lose_deficit_kcal", settings.LoseDeficitKcal))

	pool, err := newDBPool(context.Background(), cfg.DBURL)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	defer pool.Close()
	logger.Info("DB pool ready")

	h := &Handler{db: pool, calc: calc, log: logger}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Fatal("trusted proxies", zap.Error(err))
	}
	h.registerRoutes(router)

	logger.Info("starting gin app", zap.String("addr", cfg.addr()))
	if err := router.Run(cfg.addr()); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
