package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/larrybrager-personal/talking-pet-backend/config"
)

func authRouter(serverConfig *config.ServerConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(NewAuthHandler(serverConfig).AuthMiddleware())
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.POST("/generations", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func doRequest(router *gin.Engine, token string) int {
	req := httptest.NewRequest(http.MethodPost, "/generations", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec.Code
}

func TestAuthDisabledAllowsRequest(t *testing.T) {
	router := authRouter(&config.ServerConfig{AuthEnabled: false})
	if code := doRequest(router, ""); code != http.StatusOK {
		t.Fatal("Expected request to pass with auth disabled, got:", code)
	}
}

func TestAuthEnabledWithoutTokenIsServerFault(t *testing.T) {
	router := authRouter(&config.ServerConfig{AuthEnabled: true})
	if code := doRequest(router, "anything"); code != http.StatusInternalServerError {
		t.Fatal("Expected 500 when auth is enabled without a configured token, got:", code)
	}
}

func TestMissingAuthorizationHeaderRejected(t *testing.T) {
	router := authRouter(&config.ServerConfig{AuthEnabled: true, AuthToken: "secret"})
	if code := doRequest(router, ""); code != http.StatusUnauthorized {
		t.Fatal("Expected 401 without an authorization header, got:", code)
	}
}

func TestInvalidTokenRejected(t *testing.T) {
	router := authRouter(&config.ServerConfig{AuthEnabled: true, AuthToken: "secret"})
	if code := doRequest(router, "nope"); code != http.StatusForbidden {
		t.Fatal("Expected 403 for a wrong token, got:", code)
	}
}

func TestBareTokenWithoutBearerSchemeRejected(t *testing.T) {
	router := authRouter(&config.ServerConfig{AuthEnabled: true, AuthToken: "secret"})
	req := httptest.NewRequest(http.MethodPost, "/generations", nil)
	req.Header.Set("Authorization", "secret")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatal("Expected 403 when the Bearer scheme is missing, got:", rec.Code)
	}
}

func TestValidTokenAccepted(t *testing.T) {
	router := authRouter(&config.ServerConfig{AuthEnabled: true, AuthToken: "secret"})
	if code := doRequest(router, "secret"); code != http.StatusOK {
		t.Fatal("Expected a valid token to pass, got:", code)
	}
}

func TestHealthExemptFromAuth(t *testing.T) {
	router := authRouter(&config.ServerConfig{AuthEnabled: true, AuthToken: "secret"})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatal("Expected /health to bypass auth, got:", rec.Code)
	}
}
