package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/facturio/backend/internal/infrastructure/logger"
)

func TestRequestID_Generated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RequestID(zap.NewNop()))

	var seenInContext string
	engine.GET("/ping", func(c *gin.Context) {
		seenInContext = logger.GetRequestID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	engine.ServeHTTP(rec, req)

	headerID := rec.Header().Get(RequestIDHeader)
	require.NotEmpty(t, headerID)
	assert.Equal(t, headerID, seenInContext)
}

func TestRequestID_PropagatesIncoming(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RequestID(nil))

	var ginValue string
	engine.GET("/ping", func(c *gin.Context) {
		ginValue = c.GetString("request_id")
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "req-abc-123")
	engine.ServeHTTP(rec, req)

	assert.Equal(t, "req-abc-123", rec.Header().Get(RequestIDHeader))
	assert.Equal(t, "req-abc-123", ginValue)
}

func TestBodySizeLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(BodySizeLimit(16))
	engine.POST("/echo", func(c *gin.Context) {
		var payload struct {
			Name string `json:"name"`
		}
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.AbortWithStatus(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"name":"ok"}`))
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	body := `{"name":"` + strings.Repeat("x", 64) + `"}`
	req = httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(body))
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
