package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newEngine(routes func(r *gin.Engine)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Logger(), Recovery(), CORS(""), ErrorHandler())
	routes(r)
	return r
}

func serve(r *gin.Engine, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	r := newEngine(func(r *gin.Engine) {
		r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })
	})

	w := serve(r, http.MethodGet, "/x", nil)
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	w = serve(r, http.MethodGet, "/x", http.Header{RequestIDHeader: {"caja-01"}})
	assert.Equal(t, "caja-01", w.Header().Get(RequestIDHeader))

	w = serve(r, http.MethodGet, "/x", http.Header{RequestIDHeader: {strings.Repeat("a", 65)}})
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
}

func TestErrorHandler_OcultaErroresInternos(t *testing.T) {
	r := newEngine(func(r *gin.Engine) {
		r.GET("/boom", func(c *gin.Context) { _ = c.Error(errors.New("pq: deadlock detected")) })
		r.GET("/respondido", func(c *gin.Context) {
			_ = c.Error(errors.New("ya respondido"))
			c.JSON(http.StatusConflict, gin.H{"detail": "La venta ya está cerrada"})
		})
	})

	w := serve(r, http.MethodGet, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"detail":"Error interno del servidor"}`, w.Body.String())

	w = serve(r, http.MethodGet, "/respondido", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.NotContains(t, w.Body.String(), "Error interno")
}

func TestRecovery(t *testing.T) {
	r := newEngine(func(r *gin.Engine) {
		r.GET("/panic", func(c *gin.Context) { panic("nil map") })
	})

	w := serve(r, http.MethodGet, "/panic", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"detail":"Error interno del servidor"}`, w.Body.String())
}

func TestCORS_Preflight(t *testing.T) {
	r := newEngine(func(r *gin.Engine) {
		r.POST("/v1/ventas", func(c *gin.Context) { c.Status(http.StatusCreated) })
	})

	w := serve(r, http.MethodOptions, "/v1/ventas", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, RequestIDHeader, w.Header().Get("Access-Control-Expose-Headers"))
}
