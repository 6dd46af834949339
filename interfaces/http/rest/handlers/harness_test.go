package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"memeboard-backend/application/services"
	"memeboard-backend/interfaces/http/rest/middleware"
	"memeboard-backend/pkg/auth"
	"memeboard-backend/pkg/chain"
	"memeboard-backend/pkg/errors"
	"memeboard-backend/pkg/httpx"
)

// testServer assembles the handlers on a chi router backed by fake
// repositories, mirroring the production chain composition.
type testServer struct {
	router *chi.Mux

	users  *fakeUserRepo
	memes  *fakeMemeRepo
	tokens *fakeTokenRepo
	links  *fakeShortLinkRepo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()

	users := newFakeUserRepo()
	memes := newFakeMemeRepo()
	tokens := newFakeTokenRepo()
	links := newFakeShortLinkRepo()

	jwtService, err := auth.NewJWTService(auth.JWTConfig{
		SecretKey: "handler-test-secret",
		Issuer:    "memeboard-test",
		TTL:       time.Hour,
	})
	require.NoError(t, err)

	authService := services.NewAuthService(users, tokens, jwtService, logger)
	userService := services.NewUserService(users, logger)
	memeService := services.NewMemeService(memes, users, logger)
	linkService := services.NewShortLinkService(links, logger)

	errorHandler := errors.NewErrorHandler(logger, false)
	base := chain.NewFactory().
		Use(errorHandler.Recovery()).
		UseOnError(errorHandler.OnChainError)
	authed := base.With(middleware.Authenticate(authService))

	loginLimiter := auth.NewTokenBucketLimiter(100, time.Millisecond)
	authHandler := NewAuthHandler(authService, userService, loginLimiter, logger)
	userHandler := NewUserHandler(userService, logger)
	memeHandler := NewMemeHandler(memeService, logger)
	linkHandler := NewShortLinkHandler(linkService, httpx.NewClient(httpx.Options{}), logger)

	router := chi.NewRouter()
	router.Method(http.MethodGet, "/s/{slug}", base.Handler(linkHandler.Resolve))
	router.Route("/api/v1", func(r chi.Router) {
		r.Method(http.MethodPost, "/auth/register", base.Handler(authHandler.Register))
		r.Method(http.MethodPost, "/auth/login", base.Handler(authHandler.Login))
		r.Method(http.MethodPost, "/auth/logout", authed.Handler(authHandler.Logout))
		r.Method(http.MethodPost, "/auth/logout-all", authed.Handler(authHandler.LogoutAll))
		r.Method(http.MethodGet, "/auth/me", authed.Handler(authHandler.Me))

		r.Method(http.MethodGet, "/users", authed.Handler(userHandler.List))
		r.Method(http.MethodGet, "/users/{userID}", authed.Handler(userHandler.Get))
		r.Method(http.MethodPut, "/users/{userID}", authed.Handler(userHandler.UpdateProfile))
		r.Method(http.MethodPost, "/users/{userID}/friend", authed.Handler(userHandler.Friend))
		r.Method(http.MethodDelete, "/users/{userID}/friend", authed.Handler(userHandler.Unfriend))

		r.Method(http.MethodPost, "/memes", authed.Handler(memeHandler.Create))
		r.Method(http.MethodGet, "/memes", authed.Handler(memeHandler.Feed))
		r.Method(http.MethodGet, "/memes/{memeID}", authed.Handler(memeHandler.Get))
		r.Method(http.MethodDelete, "/memes/{memeID}", authed.Handler(memeHandler.Delete))
		r.Method(http.MethodPost, "/memes/{memeID}/like", authed.Handler(memeHandler.Like))
		r.Method(http.MethodDelete, "/memes/{memeID}/like", authed.Handler(memeHandler.Unlike))

		r.Method(http.MethodPost, "/links", authed.Handler(linkHandler.Create))
		r.Method(http.MethodGet, "/links", authed.Handler(linkHandler.ListMine))
		r.Method(http.MethodDelete, "/links/{slug}", authed.Handler(linkHandler.Delete))
	})

	return &testServer{router: router, users: users, memes: memes, tokens: tokens, links: links}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// register creates an account and logs it in, returning the session
// token and user id.
func (s *testServer) register(t *testing.T, username string) (token, userID string) {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"username": username,
		"email":    username + "@example.com",
		"password": "correct-horse-battery",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"username": username,
		"password": "correct-horse-battery",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token, resp.User.ID
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}
