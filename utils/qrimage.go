package utils

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// Ukuran mengikuti perilaku lama: preview 300px level M, file download
// 400px level H biar tahan dicetak dan dilaminating.
const (
	qrPreviewSize  = 300
	qrDownloadSize = 400
)

// GenerateQRCodeBase64 meng-encode URL menjadi data URL PNG untuk
// ditampilkan langsung di halaman admin.
func GenerateQRCodeBase64(content string) (string, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, qrPreviewSize)
	if err != nil {
		return "", fmt.Errorf("generate qr code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// GenerateQRCodeBuffer meng-encode URL menjadi PNG mentah untuk download.
func GenerateQRCodeBuffer(content string) ([]byte, error) {
	png, err := qrcode.Encode(content, qrcode.High, qrDownloadSize)
	if err != nil {
		return nil, fmt.Errorf("generate qr code: %w", err)
	}
	return png, nil
}
