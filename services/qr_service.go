package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/yeremiapane/table-qr-service/models"
	"github.com/yeremiapane/table-qr-service/qrtoken"
	"github.com/yeremiapane/table-qr-service/utils"
	"gorm.io/gorm"
)

// QRService memegang siklus hidup QR token meja: menerbitkan, mengikat token
// ke meja (satu token berlaku per meja), memverifikasi scan, dan regenerate
// massal. Verifikasi hanya membaca; penulisan qr_token semuanya lewat sini.
type QRService struct {
	DB          *gorm.DB
	Codec       *qrtoken.Codec
	FrontendURL string
}

func NewQRService(db *gorm.DB, codec *qrtoken.Codec, frontendURL string) *QRService {
	return &QRService{DB: db, Codec: codec, FrontendURL: frontendURL}
}

// MenuURL membangun URL yang di-encode ke gambar QR.
func (s *QRService) MenuURL(token string) string {
	return fmt.Sprintf("%s/menu?token=%s", s.FrontendURL, token)
}

// BindNewToken menerbitkan token baru dan menyimpannya ke baris meja.
// Kedua kolom ditulis dalam satu statement UPDATE supaya verifikasi yang
// berjalan bersamaan melihat pasangan lama atau pasangan baru, tidak pernah
// campuran. Token lama otomatis tidak berlaku begitu tertimpa.
func (s *QRService) BindNewToken(table *models.Table) (string, error) {
	now := time.Now()
	token, err := s.Codec.Issue(table.ID, table.RestaurantID, now)
	if err != nil {
		return "", err
	}

	result := s.DB.Model(&models.Table{}).
		Where("id = ?", table.ID).
		Updates(map[string]interface{}{
			"qr_token":            token,
			"qr_token_created_at": now,
		})
	if result.Error != nil {
		return "", result.Error
	}
	if result.RowsAffected == 0 {
		// MySQL melaporkan 0 baris juga saat nilai barunya identik dengan
		// yang tersimpan (dua rebind di milidetik yang sama menghasilkan
		// token byte-per-byte sama), jadi 0 belum tentu meja hilang.
		var count int64
		if err := s.DB.Model(&models.Table{}).Where("id = ?", table.ID).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return "", ErrTableNotFound
		}
	}

	table.QRToken = &token
	table.QRTokenCreatedAt = &now
	return token, nil
}

// RegenerateToken -> rebind satu meja atas permintaan staff. Meja Inactive
// ditolak; aktifkan dulu lewat endpoint status.
func (s *QRService) RegenerateToken(tableID uint) (*models.Table, string, error) {
	var table models.Table
	if err := s.DB.First(&table, tableID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrTableNotFound
		}
		return nil, "", err
	}

	if !table.IsActive() {
		return nil, "", ErrTableInactive
	}

	token, err := s.BindNewToken(&table)
	if err != nil {
		return nil, "", err
	}

	utils.InfoLogger.Printf("QR token regenerated for table %s (ID=%d), old token invalidated", table.TableNumber, table.ID)
	return &table, token, nil
}

// TableSummary adalah potongan data meja yang aman dikirim ke tamu.
type TableSummary struct {
	ID          uint   `json:"id"`
	TableNumber string `json:"table_number"`
	Capacity    int    `json:"capacity"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

type VerificationResult struct {
	TableID       uint         `json:"table_id"`
	Table         TableSummary `json:"table"`
	RestaurantID  string       `json:"restaurant_id"`
	TokenIssuedAt time.Time    `json:"token_issued_at"`
	VerifiedAt    time.Time    `json:"verified_at"`
}

// VerifyToken memutuskan apakah token hasil scan masih berlaku. Urutannya:
// decode (signature + expiry + type), cari meja, bandingkan persis dengan
// token yang sedang terikat di baris meja, lalu cek status. Tidak ada
// mutasi sama sekali, aman dipanggil paralel.
func (s *QRService) VerifyToken(tokenString string) (*VerificationResult, *VerifyError) {
	if tokenString == "" {
		return nil, newVerifyError(CodeMissingToken, "Missing token parameter. Please scan a valid QR code.")
	}

	claims, err := s.Codec.Decode(tokenString)
	if err != nil {
		utils.InfoLogger.Printf("QR verification rejected at decode: %v", err)
		return nil, newVerifyError(CodeInvalidToken, decodeMessage(err))
	}

	var table models.Table
	if err := s.DB.First(&table, claims.TableID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.InfoLogger.Printf("QR verification rejected: table %d not found", claims.TableID)
			return nil, newVerifyError(CodeTableNotFound, "Table not found. This QR code may be outdated.")
		}
		utils.ErrorLogger.Printf("QR verification failed to load table %d: %v", claims.TableID, err)
		return nil, newVerifyError(CodeServerError, "An error occurred while verifying the QR code. Please try again.")
	}

	// Token yang masih bisa di-decode tapi bukan token terikat saat ini
	// berarti sudah tergantikan oleh regenerate. Baris dengan qr_token NULL
	// jatuh ke cabang yang sama.
	if table.QRToken == nil || *table.QRToken != tokenString {
		utils.InfoLogger.Printf("QR verification rejected: superseded token for table %s (ID=%d)", table.TableNumber, table.ID)
		return nil, newVerifyError(CodeTokenRegenerated, "This QR Code has been updated. Please scan the new QR code on the table.")
	}

	if !table.IsActive() {
		utils.InfoLogger.Printf("QR verification rejected: table %s (ID=%d) is inactive", table.TableNumber, table.ID)
		return nil, newVerifyError(CodeTableInactive, "This table is currently not available. Please contact staff.")
	}

	return &VerificationResult{
		TableID: table.ID,
		Table: TableSummary{
			ID:          table.ID,
			TableNumber: table.TableNumber,
			Capacity:    table.Capacity,
			Location:    table.Location,
			Description: table.Description,
			Status:      table.Status,
		},
		RestaurantID:  table.RestaurantID,
		TokenIssuedAt: time.UnixMilli(claims.Timestamp),
		VerifiedAt:    time.Now(),
	}, nil
}

func decodeMessage(err error) string {
	switch {
	case errors.Is(err, qrtoken.ErrTokenExpired):
		return "QR Code has expired. Please ask staff for a new QR code."
	case errors.Is(err, qrtoken.ErrWrongTokenType):
		return "Invalid token type."
	default:
		return "Invalid QR Code. Please scan a valid QR code."
	}
}

type RegenerateFailure struct {
	TableID     uint   `json:"table_id"`
	TableNumber string `json:"table_number"`
	Error       string `json:"error"`
}

type RegenerateReport struct {
	Total        int                 `json:"total"`
	SuccessCount int                 `json:"success_count"`
	FailureCount int                 `json:"failure_count"`
	Successes    []uint              `json:"successes"`
	Failures     []RegenerateFailure `json:"failures"`
}

// RegenerateAllTokens rebind semua meja Active satu per satu. Kegagalan di
// satu meja dicatat ke report dan loop lanjut; meja yang gagal tetap
// memegang token lamanya yang masih berlaku. Error global hanya terjadi
// kalau enumerasi mejanya sendiri gagal.
func (s *QRService) RegenerateAllTokens() (*RegenerateReport, error) {
	var tables []models.Table
	if err := s.DB.Where("status = ?", models.TableStatusActive).Order("table_number").Find(&tables).Error; err != nil {
		return nil, fmt.Errorf("list active tables: %w", err)
	}

	report := &RegenerateReport{
		Total:     len(tables),
		Successes: make([]uint, 0, len(tables)),
		Failures:  make([]RegenerateFailure, 0),
	}

	for i := range tables {
		table := &tables[i]
		if _, err := s.BindNewToken(table); err != nil {
			utils.ErrorLogger.Printf("Bulk QR regenerate failed for table %s (ID=%d): %v", table.TableNumber, table.ID, err)
			report.Failures = append(report.Failures, RegenerateFailure{
				TableID:     table.ID,
				TableNumber: table.TableNumber,
				Error:       err.Error(),
			})
			continue
		}
		report.Successes = append(report.Successes, table.ID)
	}

	report.SuccessCount = len(report.Successes)
	report.FailureCount = len(report.Failures)
	utils.InfoLogger.Printf("Bulk QR regenerate finished: %d ok, %d failed of %d", report.SuccessCount, report.FailureCount, report.Total)
	return report, nil
}
