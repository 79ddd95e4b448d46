package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"ojspace/pkg/utils/contextkey"

	"github.com/gin-gonic/gin"
)

func TestTraceContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(TraceContext())

	var ctxRequestID interface{}
	r.GET("/", func(c *gin.Context) {
		ctxRequestID = c.Request.Context().Value(contextkey.RequestID)
		c.String(http.StatusOK, RequestID(c))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	r.ServeHTTP(w, req)

	if w.Body.String() != "req-1" || ctxRequestID != "req-1" {
		t.Fatalf("request id not propagated: body=%q ctx=%v", w.Body.String(), ctxRequestID)
	}
	if w.Header().Get(RequestIDHeader) != "req-1" {
		t.Fatalf("request id not echoed")
	}
	if w.Header().Get(TraceIDHeader) == "" {
		t.Fatal("trace id should be generated")
	}
}
