package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/image-toolkit/internal/models"
	"github.com/phambaophuc/image-toolkit/internal/services/ratelimit"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(handlers...)
	r.POST("/op", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, models.APIResponse{Status: models.StatusSuccess})
	})
	r.GET("/panic", func(ctx *gin.Context) {
		panic("secret /srv/path")
	})
	return r
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) models.APIResponse {
	t.Helper()
	var resp models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON body %q: %v", rec.Body.String(), err)
	}
	return resp
}

func TestAuth(t *testing.T) {
	limiter := ratelimit.NewLimiter([]string{"good"}, 2, ratelimit.NewMemoryStore())
	r := newEngine(Auth(limiter, zap.NewNop()))

	tests := []struct {
		name          string
		header        string
		wantStatus    int
		wantRemaining string
		wantMessage   string
	}{
		{"missing header", "", http.StatusUnauthorized, "", "Missing or invalid Authorization header. Format should be: 'Bearer YOUR_API_KEY'"},
		{"wrong key", "Bearer bad", http.StatusUnauthorized, "", "Invalid API key"},
		{"double space", "Bearer  good", http.StatusUnauthorized, "", "Invalid API key"},
		{"first", "Bearer good", http.StatusOK, "1", ""},
		{"second", "Bearer good", http.StatusOK, "0", ""},
		{"exhausted", "Bearer good", http.StatusTooManyRequests, "0", "Rate limit exceeded. Please upgrade your plan for more requests."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/op", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status: got %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get(HeaderRateLimitRemaining); got != tt.wantRemaining {
				t.Errorf("remaining: got %q, want %q", got, tt.wantRemaining)
			}
			resp := decode(t, rec)
			if tt.wantMessage != "" && (resp.Status != models.StatusError || resp.Message != tt.wantMessage) {
				t.Errorf("body: got %+v", resp)
			}
		})
	}
}

func TestErrorHandler_RecoversIntoEnvelope(t *testing.T) {
	r := newEngine(ErrorHandler(zap.NewNop()))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d", rec.Code)
	}
	resp := decode(t, rec)
	if resp.Status != models.StatusError || resp.Message != "Internal server error" {
		t.Errorf("body: got %+v", resp)
	}
	if strings.Contains(rec.Body.String(), "/srv/path") {
		t.Error("panic value leaked into response")
	}
}

func TestValidateContentType(t *testing.T) {
	r := newEngine(ValidateContentType(zap.NewNop()))

	tests := []struct {
		contentType string
		wantStatus  int
	}{
		{"multipart/form-data; boundary=xyz", http.StatusOK},
		{"application/json", http.StatusBadRequest},
		{"", http.StatusBadRequest},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/op", strings.NewReader(""))
		if tt.contentType != "" {
			req.Header.Set("Content-Type", tt.contentType)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != tt.wantStatus {
			t.Errorf("%q: got %d, want %d", tt.contentType, rec.Code, tt.wantStatus)
		}
	}
}

func TestCORS_ExposesRateLimitHeaders(t *testing.T) {
	r := newEngine(CORS([]string{"*"}))

	req := httptest.NewRequest(http.MethodPost, "/op", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	exposed := rec.Header().Get("Access-Control-Expose-Headers")
	if !strings.Contains(strings.ToLower(exposed), strings.ToLower(HeaderRateLimitRemaining)) {
		t.Errorf("expose headers: got %q", exposed)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("origin not allowed")
	}
}

func TestSecurityHeaders(t *testing.T) {
	r := newEngine(SecurityHeaders())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/op", nil))

	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Errorf("missing nosniff header: %v", rec.Header())
	}
}
