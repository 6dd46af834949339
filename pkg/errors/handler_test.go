package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"memeboard-backend/pkg/chain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestErrorHandler_Handle_AppError(t *testing.T) {
	h := NewErrorHandler(zap.NewNop(), false)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/memes/abc", nil)

	h.Handle(rec, req, NewNotFoundError("meme"))

	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Error)
	assert.Equal(t, string(ErrorTypeNotFound), resp.Type)
	assert.Equal(t, "meme not found", resp.Message)
}

func TestErrorHandler_Handle_GenericErrorHidesDetail(t *testing.T) {
	h := NewErrorHandler(zap.NewNop(), false)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	h.Handle(rec, req, errors.New("connection string leaked"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection string leaked")
}

func TestErrorHandler_Handle_DebugExposesDetail(t *testing.T) {
	h := NewErrorHandler(zap.NewNop(), true)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	h.Handle(rec, req, errors.New("boom"))

	assert.Contains(t, rec.Body.String(), "boom")
}

func TestErrorHandler_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		status int
	}{
		{"validation", NewValidationError("bad input"), http.StatusBadRequest},
		{"invalid id", NewInvalidIDError("user"), http.StatusBadRequest},
		{"not found", NewNotFoundError("user"), http.StatusNotFound},
		{"conflict", NewConflictError("taken"), http.StatusConflict},
		{"unauthorized", NewUnauthorizedError(""), http.StatusUnauthorized},
		{"forbidden", NewForbiddenError(""), http.StatusForbidden},
		{"rate limit", NewRateLimitError(10, "minute"), http.StatusTooManyRequests},
		{"database", NewDatabaseError("find", errors.New("x")), http.StatusInternalServerError},
		{"external", NewExternalError("registry", errors.New("x")), http.StatusBadGateway},
	}

	h := NewErrorHandler(zap.NewNop(), false)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			h.Handle(rec, req, tt.err)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestErrorHandler_OnChainError(t *testing.T) {
	h := NewErrorHandler(zap.NewNop(), false)

	f := chain.NewFactory().UseOnError(h.OnChainError)
	handler := f.Handler(func(c *chain.Context) error {
		return NewForbiddenError("not yours")
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/memes/1", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "not yours")
}

func TestErrorHandler_RecoveryCatchesPanic(t *testing.T) {
	h := NewErrorHandler(zap.NewNop(), false)

	f := chain.NewFactory().Use(h.Recovery()).UseOnError(h.OnChainError)
	handler := f.Handler(func(c *chain.Context) error {
		panic("nil map write")
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestWrap(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, "context"))
	})

	t.Run("app error keeps type", func(t *testing.T) {
		err := Wrap(NewNotFoundError("user"), "loading profile")
		assert.True(t, IsNotFound(err))
		assert.Contains(t, err.Error(), "loading profile")
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		cause := errors.New("io timeout")
		err := Wrap(cause, "saving meme")
		appErr := GetAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, ErrorTypeInternal, appErr.Type)
		assert.ErrorIs(t, err, cause)
	})
}
