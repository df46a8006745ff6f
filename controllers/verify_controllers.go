package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/table-qr-service/services"
	"github.com/yeremiapane/table-qr-service/utils"
)

type VerifyController struct {
	QR *services.QRService
}

func NewVerifyController(qr *services.QRService) *VerifyController {
	return &VerifyController{QR: qr}
}

// VerifyToken -> GET /api/verify?token=xxx saat tamu scan QR
func (vc *VerifyController) VerifyToken(c *gin.Context) {
	vc.respond(c, c.Query("token"))
}

// VerifyTokenPost -> alternatif dengan token di request body
func (vc *VerifyController) VerifyTokenPost(c *gin.Context) {
	var body struct {
		Token string `json:"token"`
	}
	// Body kosong / bukan JSON diperlakukan sama dengan token kosong
	_ = c.ShouldBindJSON(&body)
	vc.respond(c, body.Token)
}

func (vc *VerifyController) respond(c *gin.Context, token string) {
	result, verr := vc.QR.VerifyToken(token)
	if verr != nil {
		utils.RespondErrorCode(c, statusForCode(verr.Code), verr.Code, verr.Message)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "QR Code verified successfully", result)
}

// statusForCode memetakan kode verifikasi ke status HTTP yang sama dengan
// kontrak API lama.
func statusForCode(code string) int {
	switch code {
	case services.CodeMissingToken, services.CodeTableInactive:
		return http.StatusBadRequest
	case services.CodeInvalidToken, services.CodeTokenRegenerated:
		return http.StatusUnauthorized
	case services.CodeTableNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
