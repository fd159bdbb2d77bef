package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/harvestgreens/storefront/internal/mockapi"
	"github.com/harvestgreens/storefront/pkg/logger"
)

func main() {
	logger.Initialize(logger.Config{
		Level:       getEnv("MOCKAPI_LOG_LEVEL", "info"),
		Format:      "console",
		EnableColor: true,
	})

	port := getEnv("MOCKAPI_PORT", "8080")
	secret := getEnv("MOCKAPI_JWT_SECRET", "mockapi-dev-secret")

	server := mockapi.NewServer(secret)
	engine := server.Router()

	go func() {
		addr := fmt.Sprintf(":%s", port)
		logger.Info("Mock storefront API started", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start mock API", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Mock API stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
