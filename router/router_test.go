package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/table-qr-service/config"
	"github.com/yeremiapane/table-qr-service/models"
	"github.com/yeremiapane/table-qr-service/qrtoken"
	"github.com/yeremiapane/table-qr-service/services"
	"github.com/yeremiapane/table-qr-service/utils"
)

// Rate limiter umum harus benar-benar jalan untuk route yang didaftarkan
// SetupRouter. gin membekukan handler chain saat registrasi, jadi limiter
// yang dipasang lewat Use() setelah SetupRouter tidak pernah dipanggil.
func TestGlobalRateLimitAppliesToRegisteredRoutes(t *testing.T) {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file:router_test_1?mode=memory&cache=shared"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.Table{}))

	codec, err := qrtoken.NewCodec([]byte("test-secret-for-qr-tokens"), time.Hour)
	assert.NoError(t, err)
	qrService := services.NewQRService(db, codec, "http://localhost:5173")

	cfg := &config.AppConfig{
		FrontendURL:    "http://localhost:5173",
		RestaurantID:   "rest_001",
		RestaurantName: "Smart Restaurant",
	}

	r := SetupRouter(db, qrService, cfg)

	// Limit 50 req/detik per IP: dari 55 request beruntun, request ke-51
	// dan seterusnya harus kena 429
	statuses := make(map[int]int)
	for i := 0; i < 55; i++ {
		req, _ := http.NewRequest("GET", "/api/health", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		statuses[w.Code]++
	}
	assert.Equal(t, 50, statuses[http.StatusOK])
	assert.Equal(t, 5, statuses[http.StatusTooManyRequests])
}
