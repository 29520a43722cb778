package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"network-summary/internal/api"
	"network-summary/internal/api/handlers"
	"network-summary/internal/config"
	"network-summary/internal/logging"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Get configuration from environment
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	cfg := config.Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			fmt.Fprintf(os.Stderr, "load config: %v\n", err)
			os.Exit(1)
		}
	}

	logger, closeLog, err := logging.New(logging.Options{
		LoggingConfig: cfg.Logging,
		SkipHandlers:  os.Getenv("API_LOG_FILE") == "",
	}, os.Getenv("API_LOG_FILE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	networkDir := os.Getenv("NETWORK_DIR")
	if networkDir == "" {
		wd, err := os.Getwd()
		if err == nil {
			networkDir = filepath.Join(wd, "results", "networks")
		} else {
			networkDir = "./results/networks"
		}
	}

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	var origins []string
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		origins = strings.Split(v, ",")
	}

	h := handlers.NewNetworkHandler(networkDir, os.Getenv("TECH_COSTS"), cfg, logger)
	router := api.NewRouter(h, logger, origins...)

	addr := fmt.Sprintf(":%s", port)
	logger.Info("starting API server", zap.String("addr", addr), zap.String("network_dir", h.NetworkDir()))
	if err := router.Run(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
