package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/pressgen/pressgen-backend/internal/handlers"
	"github.com/pressgen/pressgen-backend/internal/logger"
	"github.com/pressgen/pressgen-backend/internal/middleware"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logger.NewNop()
	return NewRouter(RouterConfig{
		Log:             log,
		AllowedOrigins:  []string{"http://localhost:3000"},
		AuthMiddleware:  middleware.NewAuthMiddleware(log, nil),
		AuthHandler:     handlers.NewAuthHandler(nil),
		ParseHandler:    handlers.NewParseHandler(log),
		GenerateHandler: handlers.NewGenerateHandler(log, nil),
		TemplateHandler: handlers.NewTemplateHandler(nil),
		ArticleHandler:  handlers.NewArticleHandler(nil),
		FeedbackHandler: handlers.NewFeedbackHandler(nil),
		AdminHandler:    handlers.NewAdminHandler(nil),
	})
}

func TestHealthcheck(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestCORS_PreflightAllowedOrigin(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodOptions, "/api/generate", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status=%d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("allow-origin=%q", got)
	}
}

func TestCORS_PreflightDisallowedOrigin(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodOptions, "/api/generate", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("allow-origin=%q", got)
	}
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/templates", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d", w.Code)
	}
}
