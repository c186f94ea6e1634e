package config

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
)

func newEnforcedRouter(enabled bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	enforcer := NewHTTPSEnforcer(zap.NewNop(), enabled)
	router.Use(enforcer.HTTPSMiddleware())

	router.GET("/checklist", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return router
}

func TestHTTPSEnforcer_RedirectsWhenEnabled(t *testing.T) {
	RegisterTestingT(t)
	router := newEnforcedRouter(true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/checklist", nil)
	req.Host = "daycheck.example.com"
	router.ServeHTTP(w, req)

	Expect(w.Code).To(Equal(http.StatusMovedPermanently))
	Expect(w.Header().Get("Location")).To(Equal("https://daycheck.example.com/checklist"))
}

func TestHTTPSEnforcer_DisabledByConfig(t *testing.T) {
	RegisterTestingT(t)
	router := newEnforcedRouter(false)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/checklist", nil)
	req.Host = "daycheck.example.com"
	router.ServeHTTP(w, req)

	Expect(w.Code).To(Equal(http.StatusOK))
}

func TestHTTPSEnforcer_SkipsLocalhost(t *testing.T) {
	RegisterTestingT(t)
	router := newEnforcedRouter(true)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/checklist", nil)
	req.Host = "localhost:8080"
	router.ServeHTTP(w, req)

	Expect(w.Code).To(Equal(http.StatusOK))
}

func TestHTTPSEnforcer_HonorsForwardedProto(t *testing.T) {
	RegisterTestingT(t)
	router := newEnforcedRouter(true)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/checklist", nil)
	req.Host = "daycheck.example.com"
	req.Header.Set("X-Forwarded-Proto", "https")
	router.ServeHTTP(w, req)

	Expect(w.Code).To(Equal(http.StatusOK))
}

func TestLoadFromEnv_EnforceHTTPSOverride(t *testing.T) {
	RegisterTestingT(t)
	t.Setenv("ENFORCE_HTTPS", "true")

	cfg := LoadFromEnv()

	Expect(cfg.EnforceHTTPS).To(BeTrue())
}
