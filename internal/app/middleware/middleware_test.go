package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/nora-content/internal/app/domain/auth"
	"github.com/FACorreiaa/nora-content/internal/app/models"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTokens(t *testing.T) *auth.TokenService {
	t.Helper()
	tokens, err := auth.NewTokenService(testSecret, 24*time.Hour, "nora_auth", zap.NewNop())
	require.NoError(t, err)
	return tokens
}

func newSessionRouter(tokens *auth.TokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware(), SessionMiddleware(tokens))
	r.GET("/whoami", func(c *gin.Context) {
		fromGin := GetClaims(c)
		fromCtx := ClaimsFromContext(c.Request.Context())
		if fromGin == nil || fromCtx == nil {
			c.JSON(http.StatusOK, gin.H{"user": nil})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": fromCtx.Username, "same": fromGin == fromCtx})
	})
	return r
}

func TestSessionMiddleware(t *testing.T) {
	tokens := newTokens(t)
	r := newSessionRouter(tokens)

	t.Run("ValidCookie", func(t *testing.T) {
		token, err := tokens.CreateToken(&models.User{ID: 3, Username: "helmi", Role: models.RoleRegional, AllowedLangs: []string{"fi"}})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.AddCookie(&http.Cookie{Name: "nora_auth", Value: token})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user":"helmi","same":true}`, w.Body.String())
	})

	t.Run("TamperedCookieIsAnonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.AddCookie(&http.Cookie{Name: "nora_auth", Value: "not.a.jwt"})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user":null}`, w.Body.String())
	})

	t.Run("NoCookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.JSONEq(t, `{"user":null}`, w.Body.String())
		assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	})
}

func TestRequestIDMiddleware_EchoesHeader(t *testing.T) {
	r := newSessionRouter(newTokens(t))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://site.example"}))
	r.POST("/api/i18n/:lang", func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(method, origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/api/i18n/fi", nil)
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("AllowedPreflight", func(t *testing.T) {
		w := send(http.MethodOptions, "https://site.example")

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "https://site.example", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		assert.Equal(t, "Origin", w.Header().Get("Vary"))
	})

	t.Run("UnknownOriginGetsNoCORSHeaders", func(t *testing.T) {
		for _, method := range []string{http.MethodOptions, http.MethodPost} {
			w := send(method, "https://evil.example")

			assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"), method)
			assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"), method)
		}
	})

	t.Run("SameOriginRequestPassesThrough", func(t *testing.T) {
		w := send(http.MethodPost, "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}
