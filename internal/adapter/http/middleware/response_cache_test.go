package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	appconfig "daycheck/pkg/config"
	"daycheck/pkg/tracing"
)

func newCachedRouter(rc *ResponseCache, hits *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(rc.CacheMiddleware())

	router.GET("/checklist", func(c *gin.Context) {
		*hits++
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.POST("/tasks", func(c *gin.Context) {
		*hits++
		c.JSON(201, gin.H{"status": "created"})
	})
	router.DELETE("/tasks/:uuid", func(c *gin.Context) {
		*hits++
		c.JSON(404, gin.H{"error": "task not found"})
	})

	return router
}

func TestCacheMiddleware_ServesFromCache(t *testing.T) {
	RegisterTestingT(t)
	rc := NewResponseCache(zap.NewNop(), tracing.NewAppMetrics(prometheus.NewRegistry()))

	hits := 0
	router := newCachedRouter(rc, &hits)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/checklist", nil)
	router.ServeHTTP(w, req)

	Expect(w.Code).To(Equal(200))
	Expect(hits).To(Equal(1))

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/checklist", nil)
	router.ServeHTTP(w, req)

	Expect(w.Code).To(Equal(200))
	Expect(w.Header().Get("X-Cache")).To(Equal("HIT"))
	Expect(hits).To(Equal(1))
}

func TestCacheMiddleware_SkipsMutations(t *testing.T) {
	RegisterTestingT(t)
	rc := NewResponseCache(zap.NewNop(), tracing.NewAppMetrics(prometheus.NewRegistry()))

	hits := 0
	router := newCachedRouter(rc, &hits)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/tasks", nil)
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(201))
	}

	Expect(hits).To(Equal(3))
}

func TestCacheMiddleware_ExpiresAfterTTL(t *testing.T) {
	RegisterTestingT(t)
	rc := NewResponseCache(zap.NewNop(), tracing.NewAppMetrics(prometheus.NewRegistry()))

	rc.SetConfig("/checklist", appconfig.ResponseCacheConfig{
		TTL:     30 * time.Millisecond,
		Enabled: true,
	})

	hits := 0
	router := newCachedRouter(rc, &hits)

	req, _ := http.NewRequest("GET", "/checklist", nil)

	router.ServeHTTP(httptest.NewRecorder(), req)
	router.ServeHTTP(httptest.NewRecorder(), req)
	Expect(hits).To(Equal(1))

	time.Sleep(40 * time.Millisecond)

	router.ServeHTTP(httptest.NewRecorder(), req)
	Expect(hits).To(Equal(2))
}

func TestCacheMiddleware_MutationFlushesCache(t *testing.T) {
	RegisterTestingT(t)
	rc := NewResponseCache(zap.NewNop(), tracing.NewAppMetrics(prometheus.NewRegistry()))

	hits := 0
	router := newCachedRouter(rc, &hits)

	getReq, _ := http.NewRequest("GET", "/checklist", nil)

	router.ServeHTTP(httptest.NewRecorder(), getReq)
	Expect(hits).To(Equal(1))

	postReq, _ := http.NewRequest("POST", "/tasks", nil)
	router.ServeHTTP(httptest.NewRecorder(), postReq)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, getReq)

	Expect(w.Header().Get("X-Cache")).To(Equal("MISS"))
	Expect(hits).To(Equal(3))
}

func TestCacheMiddleware_FailedMutationKeepsCache(t *testing.T) {
	RegisterTestingT(t)
	rc := NewResponseCache(zap.NewNop(), tracing.NewAppMetrics(prometheus.NewRegistry()))

	hits := 0
	router := newCachedRouter(rc, &hits)

	getReq, _ := http.NewRequest("GET", "/checklist", nil)

	router.ServeHTTP(httptest.NewRecorder(), getReq)

	deleteReq, _ := http.NewRequest("DELETE", "/tasks/nope", nil)
	router.ServeHTTP(httptest.NewRecorder(), deleteReq)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, getReq)

	Expect(w.Header().Get("X-Cache")).To(Equal("HIT"))
	Expect(hits).To(Equal(2))
}

func TestInvalidateAllCache(t *testing.T) {
	RegisterTestingT(t)
	rc := NewResponseCache(zap.NewNop(), tracing.NewAppMetrics(prometheus.NewRegistry()))

	hits := 0
	router := newCachedRouter(rc, &hits)

	req, _ := http.NewRequest("GET", "/checklist", nil)

	router.ServeHTTP(httptest.NewRecorder(), req)
	rc.InvalidateAllCache()
	router.ServeHTTP(httptest.NewRecorder(), req)

	Expect(hits).To(Equal(2))
}
