package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/yeremiapane/table-qr-service/qrtoken"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// AppConfig menampung konfigurasi proses yang dibaca sekali saat startup.
// Secret tidak pernah dibaca ulang dari env di tempat lain.
type AppConfig struct {
	JWTSecret      []byte
	TokenLifetime  time.Duration
	FrontendURL    string
	RestaurantID   string
	RestaurantName string
	Port           string
	SeedDB         bool
}

// LoadConfig membaca konfigurasi dari environment. JWT_SECRET wajib ada:
// tanpa secret proses harus gagal start, bukan diam-diam memakai default.
func LoadConfig() (*AppConfig, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET is required but not set")
	}

	lifetime := qrtoken.DefaultLifetime
	if raw := os.Getenv("QR_TOKEN_LIFETIME"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid QR_TOKEN_LIFETIME %q: %w", raw, err)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("QR_TOKEN_LIFETIME must be positive, got %q", raw)
		}
		lifetime = parsed
	}

	cfg := &AppConfig{
		JWTSecret:      []byte(secret),
		TokenLifetime:  lifetime,
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:5173"),
		RestaurantID:   getEnv("RESTAURANT_ID", "rest_001"),
		RestaurantName: getEnv("RESTAURANT_NAME", "Smart Restaurant"),
		Port:           getEnv("PORT", "8080"),
		SeedDB:         os.Getenv("SEED_DB") == "true",
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// InitDB membuka koneksi MySQL dari variabel DB_* (sama seperti .env lama).
func InitDB() (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		getEnv("DB_USER", "root"),
		os.Getenv("DB_PASSWORD"),
		getEnv("DB_HOST", "127.0.0.1"),
		getEnv("DB_PORT", "3306"),
		getEnv("DB_NAME", "table_qr"),
	)

	// TranslateError supaya pelanggaran unique index muncul sebagai
	// gorm.ErrDuplicatedKey, bukan error mentah driver
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return db, nil
}
