package services

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/yeremiapane/table-qr-service/models"
	"github.com/yeremiapane/table-qr-service/utils"
)

// PDFService membuat lembar QR siap cetak untuk ditempel di meja.
type PDFService struct {
	RestaurantName string
}

func NewPDFService(restaurantName string) *PDFService {
	return &PDFService{RestaurantName: restaurantName}
}

// GenerateTableQRPDF -> satu halaman A4 untuk satu meja.
func (ps *PDFService) GenerateTableQRPDF(table *models.Table, qrURL string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	if err := ps.addTablePage(pdf, table, qrURL); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateBulkTablesPDF -> satu dokumen, satu halaman per meja, untuk
// sekali cetak semua QR setelah regenerate massal.
func (ps *PDFService) GenerateBulkTablesPDF(tables []models.Table, menuURL func(token string) string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	for i := range tables {
		table := &tables[i]
		if table.QRToken == nil {
			continue
		}
		if err := ps.addTablePage(pdf, table, menuURL(*table.QRToken)); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render bulk pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (ps *PDFService) addTablePage(pdf *fpdf.Fpdf, table *models.Table, qrURL string) error {
	png, err := utils.GenerateQRCodeBuffer(qrURL)
	if err != nil {
		return err
	}

	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 24)
	pdf.CellFormat(0, 14, ps.RestaurantName, "", 1, "C", false, 0, "")

	pdf.SetDrawColor(180, 180, 180)
	pdf.Line(30, pdf.GetY()+2, 180, pdf.GetY()+2)
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 32)
	pdf.CellFormat(0, 16, fmt.Sprintf("Table %s", table.TableNumber), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	info := fmt.Sprintf("Capacity: %d persons", table.Capacity)
	if table.Location != "" {
		info += "  |  " + table.Location
	}
	pdf.CellFormat(0, 8, info, "", 1, "C", false, 0, "")
	pdf.Ln(8)

	imageName := fmt.Sprintf("qr-table-%d", table.ID)
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(imageName, opts, bytes.NewReader(png))
	// QR 100x100mm di tengah halaman
	pdf.ImageOptions(imageName, 55, pdf.GetY(), 100, 100, false, opts, 0, "")
	pdf.SetY(pdf.GetY() + 108)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, "Scan to view our menu", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 6, "Point your phone camera at the QR code above", "", 1, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	return pdf.Error()
}
