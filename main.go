package main

import (
	"log"
	"os"

	"donation-portal/config"
	"donation-portal/controllers"
	"donation-portal/routes"
	"donation-portal/utils"
)

func main() {
	if err := utils.InitLogger(); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		utils.LogError("Error loading config: %v", err)
		log.Fatal("Error loading config:", err)
	}

	config.InitDB()

	if err := os.MkdirAll(cfg.ReceiptsDir, 0755); err != nil {
		utils.LogError("Failed to create receipts directory: %v", err)
		log.Fatal("Failed to create receipts directory:", err)
	}

	controllers.InitClients(cfg)

	router := routes.SetupRouter()

	utils.LogInfo("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		utils.LogError("Error starting server: %v", err)
		log.Fatal("Error starting server:", err)
	}
}
