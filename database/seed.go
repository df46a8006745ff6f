package database

import (
	"github.com/yeremiapane/table-qr-service/models"
	"github.com/yeremiapane/table-qr-service/services"
	"github.com/yeremiapane/table-qr-service/utils"
	"gorm.io/gorm"
)

// SeedTables mengisi meja contoh saat database masih kosong, lalu langsung
// menerbitkan QR token untuk tiap meja. Idempotent: kalau sudah ada data,
// tidak melakukan apa-apa.
func SeedTables(db *gorm.DB, qrService *services.QRService, restaurantID string) error {
	var count int64
	if err := db.Model(&models.Table{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		utils.InfoLogger.Printf("Found %d existing tables, skipping seed", count)
		return nil
	}

	sampleTables := []models.Table{
		{TableNumber: "T001", Capacity: 2, Location: "Indoor", Description: "Small table near entrance"},
		{TableNumber: "T002", Capacity: 4, Location: "Indoor", Description: "Medium table by window"},
		{TableNumber: "T003", Capacity: 4, Location: "Outdoor", Description: "Outdoor seating area"},
		{TableNumber: "T004", Capacity: 6, Location: "Patio", Description: "Large patio table"},
		{TableNumber: "T005", Capacity: 8, Location: "VIP Room", Description: "VIP private dining"},
	}

	for i := range sampleTables {
		sampleTables[i].Status = models.TableStatusActive
		sampleTables[i].RestaurantID = restaurantID
		if err := db.Create(&sampleTables[i]).Error; err != nil {
			return err
		}
		if _, err := qrService.BindNewToken(&sampleTables[i]); err != nil {
			return err
		}
	}

	utils.InfoLogger.Printf("Seeded %d sample tables with QR tokens", len(sampleTables))
	return nil
}
