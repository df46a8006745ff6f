package models

import "time"

const (
	TableStatusActive   = "Active"
	TableStatusInactive = "Inactive"
)

// Table merepresentasikan meja restoran beserta QR token yang sedang berlaku.
// Kolom qr_token / qr_token_created_at hanya ditulis oleh services.QRService.
type Table struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	TableNumber      string     `gorm:"type:varchar(50);not null;uniqueIndex" json:"table_number"`
	Capacity         int        `gorm:"not null" json:"capacity"`
	Location         string     `gorm:"type:varchar(100)" json:"location"`
	Description      string     `gorm:"type:varchar(255)" json:"description"`
	Status           string     `gorm:"type:varchar(20);not null;default:'Active';index" json:"status"`
	// varchar, bukan text: MySQL menolak index di kolom TEXT tanpa prefix
	// length (error 1170). Token JWT HS256 di sini ~250 karakter.
	QRToken          *string    `gorm:"type:varchar(512);index" json:"qr_token"`
	QRTokenCreatedAt *time.Time `json:"qr_token_created_at"`
	RestaurantID     string     `gorm:"type:varchar(50);not null" json:"restaurant_id"`
	CreatedAt        time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"not null" json:"updated_at"`
}

// IsActive -> true jika meja masih boleh menerima scan QR
func (t *Table) IsActive() bool {
	return t.Status == TableStatusActive
}
