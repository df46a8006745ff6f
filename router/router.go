package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/table-qr-service/config"
	"github.com/yeremiapane/table-qr-service/controllers"
	"github.com/yeremiapane/table-qr-service/middlewares"
	"github.com/yeremiapane/table-qr-service/services"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB, qrService *services.QRService, cfg *config.AppConfig) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	// Rate limiter umum harus terpasang sebelum route didaftarkan; gin
	// membekukan handler chain per route saat registrasi, middleware yang
	// ditambahkan sesudahnya tidak pernah jalan (50 req/detik per IP)
	rateLimiter := middlewares.NewRateLimiter(50, 1)
	r.Use(rateLimiter.RateLimit())

	pdfService := services.NewPDFService(cfg.RestaurantName)

	// Inisialisasi controller
	tableCtrl := controllers.NewTableController(db, qrService, pdfService, cfg.RestaurantID)
	verifyCtrl := controllers.NewVerifyController(qrService)
	menuCtrl := controllers.NewMenuController(qrService, cfg.RestaurantName)

	api := r.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    true,
			"message":   "Server is running",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// ----------------------------------------------------------------
	//                      TABLE MANAGEMENT (staff)
	// ----------------------------------------------------------------
	tables := api.Group("/tables")
	{
		tables.GET("", tableCtrl.GetAllTables)
		tables.POST("", tableCtrl.CreateTable)

		// Rute bulk harus terdaftar sebelum rute :table_id
		tables.GET("/qr-pdf/bulk", tableCtrl.GetBulkQRPDF)
		tables.POST("/regenerate-qr/bulk", tableCtrl.RegenerateAllQR)

		tables.GET("/:table_id", tableCtrl.GetTableByID)
		tables.PUT("/:table_id", tableCtrl.UpdateTable)
		tables.PATCH("/:table_id/status", tableCtrl.UpdateTableStatus)
		tables.POST("/:table_id/regenerate-qr", tableCtrl.RegenerateQR)
		tables.GET("/:table_id/qr-image", tableCtrl.GetQRImage)
		tables.GET("/:table_id/qr-pdf", tableCtrl.GetQRPDF)
	}

	// ----------------------------------------------------------------
	//                      GUEST SCAN (publik)
	// ----------------------------------------------------------------
	scan := api.Group("/")
	scan.Use(middlewares.NewScanRateLimiter())
	{
		scan.GET("/verify", verifyCtrl.VerifyToken)
		scan.POST("/verify", verifyCtrl.VerifyTokenPost)
		scan.GET("/menu", menuCtrl.AccessMenu)
	}

	return r
}
