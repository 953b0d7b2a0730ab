package main

import (
	"context"
	"log"

	"godge/internal/api"
	"godge/internal/config"
	"godge/internal/container"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appContainer, err := container.Open(context.Background(), appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	gin.SetMode(gin.ReleaseMode)
	server := api.NewServer(
		appContainer.Analysis,
		appContainer.AnalysisOptions(""),
		appConfig.Server.MaxUploadBytes,
		appContainer.Logger,
	)

	appContainer.Logger.Info("starting godge API on port %s", appConfig.Server.Port)
	if err := server.Start(":" + appConfig.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
