package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/trailbound/trailbound-go/internal/dto/response"
	apperrors "github.com/trailbound/trailbound-go/pkg/errors"
)

func serveWith(production bool, path string, handler gin.HandlerFunc) *httptest.ResponseRecorder {
	router := gin.New()
	router.Use(ErrorHandler(zap.NewNop(), production))
	router.Use(Recovery(zap.NewNop()))
	router.GET(path, handler)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestErrorHandlerWritesFailEnvelope(t *testing.T) {
	rec := serveWith(false, "/api/v1/tours/bad", func(c *gin.Context) {
		Abort(c, apperrors.InvalidField("_id", "bad"))
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	var body response.Failure
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != response.StatusFail {
		t.Errorf("status = %q, want fail", body.Status)
	}
	if body.Error == nil || body.Stack == "" {
		t.Error("development envelope should carry error and stack")
	}
}

func TestErrorHandlerHidesInternalsInProduction(t *testing.T) {
	rec := serveWith(true, "/api/v1/boom", func(c *gin.Context) {
		Abort(c, fmt.Errorf("connection refused"))
	})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	var body response.Failure
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != response.StatusError {
		t.Errorf("status = %q, want error", body.Status)
	}
	if body.Message != "Something went very wrong!" {
		t.Errorf("message = %q", body.Message)
	}
	if body.Error != nil || body.Stack != "" {
		t.Error("production envelope leaked internals")
	}
}

func TestErrorHandlerRendersHTMLOutsideAPI(t *testing.T) {
	rec := serveWith(true, "/tour/missing", func(c *gin.Context) {
		Abort(c, apperrors.ErrNotFound.WithMessage("No tour found with that name."))
	})

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "No tour found with that name.") {
		t.Error("page missing the operational message")
	}
}

func TestErrorHandlerLeavesWrittenResponsesAlone(t *testing.T) {
	rec := serveWith(false, "/api/v1/partial", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "success"})
		_ = c.Error(fmt.Errorf("late failure"))
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "success") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestRecoveryTurnsPanicIntoEnvelope(t *testing.T) {
	rec := serveWith(true, "/api/v1/panic", func(c *gin.Context) {
		panic("unreachable index")
	})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	var body response.Failure
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Message != "Something went very wrong!" {
		t.Errorf("message = %q", body.Message)
	}
}

func TestErrorHandlerEscapesHTMLMessage(t *testing.T) {
	rec := serveWith(false, "/overview", func(c *gin.Context) {
		Abort(c, apperrors.InvalidField("_id", "<script>alert(1)</script>"))
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if strings.Contains(body, "<script>") {
		t.Fatalf("client input reached the page unescaped: %s", body)
	}
	if !strings.Contains(body, "&lt;script&gt;") {
		t.Errorf("escaped input missing from page: %s", body)
	}
}
