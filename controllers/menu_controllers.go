package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/table-qr-service/services"
	"github.com/yeremiapane/table-qr-service/utils"
)

type MenuController struct {
	QR             *services.QRService
	RestaurantName string
}

func NewMenuController(qr *services.QRService, restaurantName string) *MenuController {
	return &MenuController{QR: qr, RestaurantName: restaurantName}
}

// menuCategories masih statis; nanti diganti tabel menu sungguhan.
var menuCategories = []gin.H{
	{"id": "appetizers", "name": "Appetizers"},
	{"id": "main", "name": "Main Courses"},
	{"id": "seafood", "name": "Seafood"},
	{"id": "drinks", "name": "Drinks"},
	{"id": "desserts", "name": "Desserts"},
}

// AccessMenu -> landing tamu setelah scan: verifikasi token lalu kirim info
// meja + kategori menu. Pakai verifier yang sama dengan /api/verify.
func (mc *MenuController) AccessMenu(c *gin.Context) {
	result, verr := mc.QR.VerifyToken(c.Query("token"))
	if verr != nil {
		utils.RespondErrorCode(c, statusForCode(verr.Code), verr.Code, verr.Message)
		return
	}

	utils.RespondJSON(c, http.StatusOK, fmt.Sprintf("Welcome to %s!", mc.RestaurantName), gin.H{
		"table": gin.H{
			"id":            result.TableID,
			"table_number":  result.Table.TableNumber,
			"capacity":      result.Table.Capacity,
			"restaurant_id": result.RestaurantID,
		},
		"session": gin.H{
			"verified_at":     result.VerifiedAt,
			"token_issued_at": result.TokenIssuedAt,
		},
		"menu_categories": menuCategories,
		"redirect":        fmt.Sprintf("/menu/%d", result.TableID),
	})
}
