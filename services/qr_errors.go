package services

import "errors"

// Kode error stabil untuk response verifikasi, dipakai frontend untuk
// menentukan layar error yang ditampilkan ke tamu.
const (
	CodeMissingToken     = "MISSING_TOKEN"
	CodeInvalidToken     = "INVALID_TOKEN"
	CodeTableNotFound    = "TABLE_NOT_FOUND"
	CodeTokenRegenerated = "TOKEN_REGENERATED"
	CodeTableInactive    = "TABLE_INACTIVE"
	CodeServerError      = "SERVER_ERROR"
)

var (
	ErrTableNotFound = errors.New("table not found")
	ErrTableInactive = errors.New("table is not active")
)

// VerifyError membawa kode mesin + pesan yang layak ditampilkan ke tamu.
type VerifyError struct {
	Code    string
	Message string
}

func (e *VerifyError) Error() string {
	return e.Message
}

func newVerifyError(code, message string) *VerifyError {
	return &VerifyError{Code: code, Message: message}
}
