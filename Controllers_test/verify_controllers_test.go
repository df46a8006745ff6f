package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/table-qr-service/controllers"
	"github.com/yeremiapane/table-qr-service/models"
	"github.com/yeremiapane/table-qr-service/services"
	"github.com/yeremiapane/table-qr-service/utils"
)

var verifyTestDBCounter int

func setupTestDBForVerify() *gorm.DB {
	verifyTestDBCounter++
	dsn := fmt.Sprintf("file:verifyctrl_test_%d?mode=memory&cache=shared", verifyTestDBCounter)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	if err := db.AutoMigrate(&models.Table{}); err != nil {
		panic(err)
	}
	return db
}

func setupVerifyRouter(qrService *services.QRService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	verifyCtrl := controllers.NewVerifyController(qrService)
	menuCtrl := controllers.NewMenuController(qrService, "Smart Restaurant")
	router.GET("/verify", verifyCtrl.VerifyToken)
	router.POST("/verify", verifyCtrl.VerifyTokenPost)
	router.GET("/menu", menuCtrl.AccessMenu)
	return router
}

func getVerify(router *gin.Engine, token string) (*httptest.ResponseRecorder, map[string]interface{}) {
	url := "/verify"
	if token != "" {
		url += "?token=" + token
	}
	req, _ := http.NewRequest("GET", url, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &response)
	return w, response
}

func TestVerifyAcceptsBoundToken(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForVerify()
	qrService := newTestQRService(db)

	table := models.Table{TableNumber: "T1", Capacity: 4, Location: "Indoor", Status: models.TableStatusActive, RestaurantID: "rest_001"}
	db.Create(&table)
	token, err := qrService.BindNewToken(&table)
	assert.NoError(t, err)

	router := setupVerifyRouter(qrService)

	w, response := getVerify(router, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "QR Code verified successfully", response["message"])

	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(table.ID), data["table_id"])
	assert.Equal(t, "rest_001", data["restaurant_id"])
	assert.NotEmpty(t, data["verified_at"])

	tableData := data["table"].(map[string]interface{})
	assert.Equal(t, "T1", tableData["table_number"])
	assert.Equal(t, float64(4), tableData["capacity"])
	assert.Equal(t, "Indoor", tableData["location"])
}

func TestVerifyMissingTokenParam(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForVerify()
	qrService := newTestQRService(db)
	router := setupVerifyRouter(qrService)

	w, response := getVerify(router, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MISSING_TOKEN", response["error_code"])
}

func TestVerifyMalformedToken(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForVerify()
	qrService := newTestQRService(db)
	router := setupVerifyRouter(qrService)

	w, response := getVerify(router, "not-a-valid-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_TOKEN", response["error_code"])
}

func TestVerifyWrongTypeToken(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForVerify()
	qrService := newTestQRService(db)
	router := setupVerifyRouter(qrService)

	// Token staff dengan bentuk claim yang sama tidak boleh lolos verifier QR
	w, response := getVerify(router, staffLoginToken(t))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_TOKEN", response["error_code"])
}

func staffLoginToken(t *testing.T) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"table_id":      1,
		"restaurant_id": "rest_001",
		"type":          "staff_login",
		"iat":           time.Now().Unix(),
		"exp":           time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret-for-qr-tokens"))
	assert.NoError(t, err)
	return signed
}

func TestVerifyRegeneratedTokenFlow(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForVerify()
	qrService := newTestQRService(db)

	// T1 dibuat -> token A terikat -> verify(A) diterima
	table := models.Table{TableNumber: "T1", Capacity: 4, Status: models.TableStatusActive, RestaurantID: "rest_001"}
	db.Create(&table)
	tokenA, err := qrService.BindNewToken(&table)
	assert.NoError(t, err)

	router := setupVerifyRouter(qrService)

	w, response := getVerify(router, tokenA)
	assert.Equal(t, http.StatusOK, w.Code)
	data := response["data"].(map[string]interface{})
	tableData := data["table"].(map[string]interface{})
	assert.Equal(t, "T1", tableData["table_number"])

	// Regenerate -> token B terikat -> verify(A) ditolak, verify(B) diterima
	tokenB, err := qrService.BindNewToken(&table)
	assert.NoError(t, err)

	w, response = getVerify(router, tokenA)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "TOKEN_REGENERATED", response["error_code"])

	w, _ = getVerify(router, tokenB)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestVerifyInactiveTableEndpoint(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForVerify()
	qrService := newTestQRService(db)

	table := models.Table{TableNumber: "T2", Capacity: 4, Status: models.TableStatusActive, RestaurantID: "rest_001"}
	db.Create(&table)
	token, err := qrService.BindNewToken(&table)
	assert.NoError(t, err)

	db.Model(&table).Update("status", models.TableStatusInactive)

	router := setupVerifyRouter(qrService)

	w, response := getVerify(router, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "TABLE_INACTIVE", response["error_code"])
}

func TestVerifyUnknownTableEndpoint(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForVerify()
	qrService := newTestQRService(db)

	// Token valid untuk meja yang tidak pernah ada
	token, err := qrService.Codec.Issue(424242, "rest_001", time.Now())
	assert.NoError(t, err)

	router := setupVerifyRouter(qrService)

	w, response := getVerify(router, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "TABLE_NOT_FOUND", response["error_code"])
}

func TestVerifyTokenInBody(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForVerify()
	qrService := newTestQRService(db)

	table := models.Table{TableNumber: "T3", Capacity: 4, Status: models.TableStatusActive, RestaurantID: "rest_001"}
	db.Create(&table)
	token, err := qrService.BindNewToken(&table)
	assert.NoError(t, err)

	router := setupVerifyRouter(qrService)

	payload, _ := json.Marshal(map[string]string{"token": token})
	req, _ := http.NewRequest("POST", "/verify", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Body kosong diperlakukan sebagai token hilang
	req, _ = http.NewRequest("POST", "/verify", bytes.NewBuffer([]byte("{}")))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMenuAccessWithToken(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForVerify()
	qrService := newTestQRService(db)

	table := models.Table{TableNumber: "T4", Capacity: 6, Status: models.TableStatusActive, RestaurantID: "rest_001"}
	db.Create(&table)
	token, err := qrService.BindNewToken(&table)
	assert.NoError(t, err)

	router := setupVerifyRouter(qrService)

	req, _ := http.NewRequest("GET", "/menu?token="+token, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})

	tableData := data["table"].(map[string]interface{})
	assert.Equal(t, "T4", tableData["table_number"])

	session := data["session"].(map[string]interface{})
	assert.NotEmpty(t, session["verified_at"])
	assert.NotEmpty(t, session["token_issued_at"])

	categories := data["menu_categories"].([]interface{})
	assert.NotEmpty(t, categories)

	// Tanpa token -> ditolak sebelum menyentuh data menu
	req, _ = http.NewRequest("GET", "/menu", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
