package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ashwinyue/next-mentor/internal/repository"
	"github.com/ashwinyue/next-mentor/internal/service/auth"
	"github.com/ashwinyue/next-mentor/internal/service/generator"
	"github.com/ashwinyue/next-mentor/internal/service/persona"
	"github.com/ashwinyue/next-mentor/internal/service/style"
)

func TestError_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", fmt.Errorf("get session: %w", repository.ErrNotFound), http.StatusNotFound},
		{"foreign key", fmt.Errorf("add message: %w", repository.ErrForeignKeyViolation), http.StatusNotFound},
		{"state transition", repository.ErrInvalidStateTransition, http.StatusConflict},
		{"invalid argument", repository.ErrInvalidArgument, http.StatusBadRequest},
		{"invalid status", repository.ErrInvalidStatus, http.StatusBadRequest},
		{"no samples", style.ErrNoSamples, http.StatusBadRequest},
		{"unknown persona", fmt.Errorf("%w: %q", persona.ErrUnknownPersona, "x"), http.StatusBadRequest},
		{"invalid role", auth.ErrInvalidRole, http.StatusBadRequest},
		{"bad passcode", auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{"generation", fmt.Errorf("analyze style: %w", generator.ErrGeneration), http.StatusBadGateway},
		{"storage unavailable", repository.ErrStorageUnavailable, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			Error(c, tt.err)

			assert.Equal(t, tt.want, w.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"code":%d,"msg":%q}`, tt.want, tt.err.Error()), w.Body.String())
			assert.Len(t, c.Errors, 1)
		})
	}
}

func TestSuccessWithPagination(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	SuccessWithPagination(c, []string{"a", "b"}, 41, 2, 20)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"items":["a","b"],"total":41,"page":2,"page_size":20,"total_pages":3}}`, w.Body.String())
}
