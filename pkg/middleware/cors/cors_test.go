package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newRouter(opts Options) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(New(opts))
	router.GET("/settings", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	router := newRouter(Options{AllowedOrigins: []string{"https://admin.example/"}, MaxAge: time.Minute})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/settings", nil)
	req.Header.Set("Origin", "https://ADMIN.example")
	router.ServeHTTP(w, req)

	assert.Equal(t, "https://ADMIN.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "60", w.Header().Get("Access-Control-Max-Age"))
}

func TestCORSRejectsUnknownOrigin(t *testing.T) {
	router := newRouter(Options{AllowedOrigins: []string{"https://admin.example"}})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/settings", nil)
	req.Header.Set("Origin", "https://evil.example")
	router.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	router := newRouter(Options{})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodOptions, "/settings", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
