package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/table-qr-service/models"
	"github.com/yeremiapane/table-qr-service/services"
	"github.com/yeremiapane/table-qr-service/utils"
	"gorm.io/gorm"
)

type TableController struct {
	DB           *gorm.DB
	QR           *services.QRService
	PDF          *services.PDFService
	RestaurantID string
}

func NewTableController(db *gorm.DB, qr *services.QRService, pdf *services.PDFService, restaurantID string) *TableController {
	return &TableController{DB: db, QR: qr, PDF: pdf, RestaurantID: restaurantID}
}

type tableRequest struct {
	TableNumber string `json:"table_number" binding:"required"`
	Capacity    int    `json:"capacity" binding:"required"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// CreateTable -> menambahkan meja baru sekaligus menerbitkan QR token-nya
func (tc *TableController) CreateTable(c *gin.Context) {
	var req tableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Missing required fields: table_number and capacity are required"))
		return
	}

	if req.Capacity < 1 || req.Capacity > 20 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Capacity must be a positive integer between 1 and 20"))
		return
	}

	var existing models.Table
	if err := tc.DB.Where("table_number = ?", req.TableNumber).First(&existing).Error; err == nil {
		utils.RespondError(c, http.StatusConflict,
			fmt.Errorf("Table number %s already exists. Please choose a different number.", req.TableNumber))
		return
	}

	table := models.Table{
		TableNumber:  req.TableNumber,
		Capacity:     req.Capacity,
		Location:     req.Location,
		Description:  req.Description,
		Status:       models.TableStatusActive,
		RestaurantID: tc.RestaurantID,
	}

	if err := tc.DB.Create(&table).Error; err != nil {
		respondTableSaveError(c, err, req.TableNumber)
		return
	}

	// Meja baru langsung dapat QR token (meja default Active)
	token, err := tc.QR.BindNewToken(&table)
	if err != nil {
		utils.ErrorLogger.Printf("Failed to bind QR token for new table %s: %v", table.TableNumber, err)
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	qrURL := tc.QR.MenuURL(token)
	qrImage, err := utils.GenerateQRCodeBase64(qrURL)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New table created: %s (ID=%d) with QR token", table.TableNumber, table.ID)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully with QR Code", gin.H{
		"table":    table,
		"qr_url":   qrURL,
		"qr_image": qrImage,
	})
}

// GetAllTables -> daftar meja, bisa difilter ?status=Active|Inactive
func (tc *TableController) GetAllTables(c *gin.Context) {
	query := tc.DB.Order("table_number")

	if status := c.Query("status"); status != "" {
		if status != models.TableStatusActive && status != models.TableStatusInactive {
			utils.RespondError(c, http.StatusBadRequest, errors.New("Invalid status. Must be \"Active\" or \"Inactive\""))
			return
		}
		query = query.Where("status = ?", status)
	}

	var tables []models.Table
	if err := query.Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Tables retrieved successfully", gin.H{
		"tables": tables,
		"count":  len(tables),
	})
}

// GetTableByID -> detail satu meja, termasuk gambar QR kalau token terikat
func (tc *TableController) GetTableByID(c *gin.Context) {
	table, ok := tc.findTable(c)
	if !ok {
		return
	}

	var qrImage interface{}
	if table.QRToken != nil {
		image, err := utils.GenerateQRCodeBase64(tc.QR.MenuURL(*table.QRToken))
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		qrImage = image
	}

	utils.RespondJSON(c, http.StatusOK, "Table retrieved successfully", gin.H{
		"table":    table,
		"qr_image": qrImage,
	})
}

// UpdateTable -> ubah atribut meja; kolom token tidak disentuh di sini
func (tc *TableController) UpdateTable(c *gin.Context) {
	table, ok := tc.findTable(c)
	if !ok {
		return
	}

	var req tableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Missing required fields: table_number and capacity are required"))
		return
	}

	if req.Capacity < 1 || req.Capacity > 20 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Capacity must be a positive integer between 1 and 20"))
		return
	}

	var duplicate models.Table
	if err := tc.DB.Where("table_number = ? AND id <> ?", req.TableNumber, table.ID).
		First(&duplicate).Error; err == nil {
		utils.RespondError(c, http.StatusConflict,
			fmt.Errorf("Table number %s already exists. Please choose a different number.", req.TableNumber))
		return
	}

	table.TableNumber = req.TableNumber
	table.Capacity = req.Capacity
	table.Location = req.Location
	table.Description = req.Description

	if err := tc.DB.Save(table).Error; err != nil {
		respondTableSaveError(c, err, req.TableNumber)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Table updated successfully", table)
}

// UpdateTableStatus -> soft delete: Active <-> Inactive
func (tc *TableController) UpdateTableStatus(c *gin.Context) {
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Invalid status. Must be \"Active\" or \"Inactive\""))
		return
	}
	if body.Status != models.TableStatusActive && body.Status != models.TableStatusInactive {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Invalid status. Must be \"Active\" or \"Inactive\""))
		return
	}

	table, ok := tc.findTable(c)
	if !ok {
		return
	}

	table.Status = body.Status
	if err := tc.DB.Save(table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	verb := "deactivated"
	if body.Status == models.TableStatusActive {
		verb = "activated"
	}
	utils.InfoLogger.Printf("Table %s (ID=%d) %s", table.TableNumber, table.ID, verb)
	utils.RespondJSON(c, http.StatusOK, fmt.Sprintf("Table %s successfully", verb), table)
}

// RegenerateQR -> terbitkan token baru untuk satu meja; token lama langsung
// tidak berlaku begitu tertimpa
func (tc *TableController) RegenerateQR(c *gin.Context) {
	id, ok := parseTableID(c)
	if !ok {
		return
	}

	table, token, err := tc.QR.RegenerateToken(id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTableNotFound):
			utils.RespondError(c, http.StatusNotFound, errors.New("Table not found"))
		case errors.Is(err, services.ErrTableInactive):
			utils.RespondError(c, http.StatusBadRequest, errors.New("Cannot regenerate QR for inactive table. Please activate the table first."))
		default:
			utils.ErrorLogger.Printf("Failed to regenerate QR for table %d: %v", id, err)
			utils.RespondError(c, http.StatusInternalServerError, errors.New("Internal server error"))
		}
		return
	}

	qrURL := tc.QR.MenuURL(token)
	qrImage, err := utils.GenerateQRCodeBase64(qrURL)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "QR Code regenerated successfully. Old QR codes are now invalid.", gin.H{
		"table":    table,
		"qr_url":   qrURL,
		"qr_image": qrImage,
	})
}

// RegenerateAllQR -> rebind semua meja Active; kegagalan per meja masuk
// report, tidak membatalkan meja lain
func (tc *TableController) RegenerateAllQR(c *gin.Context) {
	report, err := tc.QR.RegenerateAllTokens()
	if err != nil {
		utils.ErrorLogger.Printf("Bulk QR regenerate aborted: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("Internal server error"))
		return
	}

	message := "All QR Codes regenerated successfully"
	if report.FailureCount > 0 {
		message = fmt.Sprintf("QR regeneration finished with %d failure(s). Retry the listed tables.", report.FailureCount)
	}
	utils.RespondJSON(c, http.StatusOK, message, report)
}

// GetQRImage -> gambar QR meja; ?format=png untuk file download
func (tc *TableController) GetQRImage(c *gin.Context) {
	table, ok := tc.findTable(c)
	if !ok {
		return
	}

	if table.QRToken == nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("No QR Code found for this table. Please regenerate QR."))
		return
	}

	qrURL := tc.QR.MenuURL(*table.QRToken)

	if c.Query("format") == "png" {
		png, err := utils.GenerateQRCodeBuffer(qrURL)
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		filename := fmt.Sprintf("table-%s-qr.png", table.TableNumber)
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Data(http.StatusOK, "image/png", png)
		return
	}

	qrImage, err := utils.GenerateQRCodeBase64(qrURL)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "QR Code retrieved successfully", gin.H{
		"table_id":     table.ID,
		"table_number": table.TableNumber,
		"qr_url":       qrURL,
		"qr_image":     qrImage,
	})
}

// GetQRPDF -> lembar QR siap cetak untuk satu meja
func (tc *TableController) GetQRPDF(c *gin.Context) {
	table, ok := tc.findTable(c)
	if !ok {
		return
	}

	if table.QRToken == nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("No QR Code found for this table"))
		return
	}

	pdfBytes, err := tc.PDF.GenerateTableQRPDF(table, tc.QR.MenuURL(*table.QRToken))
	if err != nil {
		utils.ErrorLogger.Printf("Failed to generate QR PDF for table %d: %v", table.ID, err)
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	filename := fmt.Sprintf("table-%s-qr.pdf", table.TableNumber)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// GetBulkQRPDF -> satu PDF berisi semua meja Active yang punya token
func (tc *TableController) GetBulkQRPDF(c *gin.Context) {
	var tables []models.Table
	if err := tc.DB.Where("status = ? AND qr_token IS NOT NULL", models.TableStatusActive).
		Order("table_number").Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if len(tables) == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("No active tables with QR codes found"))
		return
	}

	pdfBytes, err := tc.PDF.GenerateBulkTablesPDF(tables, tc.QR.MenuURL)
	if err != nil {
		utils.ErrorLogger.Printf("Failed to generate bulk QR PDF: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	filename := fmt.Sprintf("all-tables-qr-%s.pdf", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// respondTableSaveError memetakan pelanggaran unique index table_number ke
// 409. Pengecekan duplikat sebelum INSERT masih bisa kalah race dengan
// request lain; unique index-lah penjaga terakhirnya.
func respondTableSaveError(c *gin.Context, err error, tableNumber string) {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		utils.RespondError(c, http.StatusConflict,
			fmt.Errorf("Table number %s already exists. Please choose a different number.", tableNumber))
		return
	}
	utils.RespondError(c, http.StatusInternalServerError, err)
}

func parseTableID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("table_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("Invalid table ID format"))
		return 0, false
	}
	return uint(id), true
}

func (tc *TableController) findTable(c *gin.Context) (*models.Table, bool) {
	id, ok := parseTableID(c)
	if !ok {
		return nil, false
	}

	var table models.Table
	if err := tc.DB.First(&table, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("Table not found"))
		} else {
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return nil, false
	}
	return &table, true
}
