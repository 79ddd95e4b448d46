package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ojspace/pkg/errors"

	"github.com/gin-gonic/gin"
)

func serve(t *testing.T, handler gin.HandlerFunc) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		c.Set("trace_id", "trace-1")
		handler(c)
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, w.Body.String())
	}
	return w, resp
}

func TestSuccess(t *testing.T) {
	w, resp := serve(t, func(c *gin.Context) { Success(c, gin.H{"submission_id": 42}) })
	if w.Code != http.StatusOK || resp.Code != errors.Success || resp.TraceID != "trace-1" {
		t.Fatalf("unexpected envelope: %d %+v", w.Code, resp)
	}
	data, ok := resp.Data.(map[string]interface{})
	if !ok || data["submission_id"] != float64(42) {
		t.Fatalf("unexpected data: %#v", resp.Data)
	}
}

func TestError_UsesCodeStatus(t *testing.T) {
	w, resp := serve(t, func(c *gin.Context) {
		Error(c, errors.New(errors.ProblemNotFound).WithDetail("problem_id", 9))
	})
	if w.Code != http.StatusNotFound || resp.Code != errors.ProblemNotFound {
		t.Fatalf("unexpected envelope: %d %+v", w.Code, resp)
	}
	if resp.Message != errors.ProblemNotFound.Message() || resp.Details == nil {
		t.Fatalf("unexpected message or details: %+v", resp)
	}
}

func TestErrorWithStatus_EnvelopeOnly(t *testing.T) {
	w, resp := serve(t, func(c *gin.Context) {
		ErrorWithStatus(c, http.StatusOK, errors.RequiredError("code"))
	})
	if w.Code != http.StatusOK || resp.Code != errors.RequiredFieldEmpty {
		t.Fatalf("unexpected envelope: %d %+v", w.Code, resp)
	}
	if resp.Message != "code is required" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
}

func TestBadRequest(t *testing.T) {
	w, resp := serve(t, func(c *gin.Context) { BadRequest(c, "") })
	if w.Code != http.StatusBadRequest || resp.Message != errors.InvalidParams.Message() {
		t.Fatalf("unexpected envelope: %d %+v", w.Code, resp)
	}
}

func TestSuccessWithPagination(t *testing.T) {
	_, resp := serve(t, func(c *gin.Context) { SuccessWithPagination(c, []int{1, 2}, 5, 1, 2) })
	data := resp.Data.(map[string]interface{})
	if data["total_pages"] != float64(3) || data["page_size"] != float64(2) {
		t.Fatalf("unexpected pagination: %#v", data)
	}

	_, resp = serve(t, func(c *gin.Context) { SuccessWithPagination(c, []int{}, 5, 1, 0) })
	if resp.Data.(map[string]interface{})["total_pages"] != float64(0) {
		t.Fatal("zero page size must not divide")
	}
}
