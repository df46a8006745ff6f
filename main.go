package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/yeremiapane/table-qr-service/config"
	"github.com/yeremiapane/table-qr-service/database"
	"github.com/yeremiapane/table-qr-service/models"
	"github.com/yeremiapane/table-qr-service/qrtoken"
	"github.com/yeremiapane/table-qr-service/router"
	"github.com/yeremiapane/table-qr-service/services"
	"github.com/yeremiapane/table-qr-service/utils"
	"gorm.io/gorm"
)

func main() {
	// Load .env di awal sebelum apapun
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InitLogger()

	// Konfigurasi wajib valid sebelum apapun jalan; tanpa JWT_SECRET
	// proses berhenti di sini, tidak diam-diam menandatangani token
	// dengan secret kosong.
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.ErrorLogger.Fatalf("Invalid configuration: %v", err)
	}

	codec, err := qrtoken.NewCodec(cfg.JWTSecret, cfg.TokenLifetime)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to build token codec: %v", err)
	}

	// Initialize DB
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	// Set gin mode
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	qrService := services.NewQRService(db, codec, cfg.FrontendURL)

	if cfg.SeedDB {
		if err := database.SeedTables(db, qrService, cfg.RestaurantID); err != nil {
			utils.ErrorLogger.Fatalf("Failed to seed tables: %v", err)
		}
	}

	// Setup router (termasuk rate limiter, dipasang sebelum route)
	r := router.SetupRouter(db, qrService, cfg)

	utils.InfoLogger.Printf("QR token lifetime: %s", codec.Lifetime())
	utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	if err := db.AutoMigrate(&models.Table{}); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}
