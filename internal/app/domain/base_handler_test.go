package domain

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/FACorreiaa/nora-content/internal/app/models"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("key_path required: %w", models.ErrValidation), http.StatusBadRequest},
		{models.ErrInvalidLanguage, http.StatusBadRequest},
		{fmt.Errorf("invalid credentials: %w", models.ErrUnauthenticated), http.StatusUnauthorized},
		{models.ErrForbidden, http.StatusForbidden},
		{models.ErrTooManyAttempts, http.StatusTooManyRequests},
		{models.ErrBundleUnavailable, http.StatusInternalServerError},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
}

func TestRespondError_HidesServerErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewBaseHandler(zap.NewNop())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/i18n/en", nil)

	h.RespondError(c, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Server error"}`, w.Body.String())
	assert.True(t, c.IsAborted())
}

func TestRespondError_ClientError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewBaseHandler(zap.NewNop())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/i18n/xx", nil)

	h.RespondError(c, models.ErrInvalidLanguage)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid language"}`, w.Body.String())
}
