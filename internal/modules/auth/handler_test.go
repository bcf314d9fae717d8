package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"party-portal/internal/models"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	authURL string
	state   string

	callbackCalled bool
	callbackResp   *models.AuthResponse
	callbackErr    error
}

func (s *stubService) Login(context.Context, models.LoginRequest) (*models.AuthResponse, error) {
	return nil, models.ErrInvalidCredentials
}

func (s *stubService) HandleGoogleLogin() (string, string, error) {
	return s.authURL, s.state, nil
}

func (s *stubService) HandleGoogleCallback(context.Context, string) (*models.AuthResponse, error) {
	s.callbackCalled = true
	return s.callbackResp, s.callbackErr
}

func (s *stubService) ClientOrigin() string {
	return "http://localhost:3000"
}

func stateCookieFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "oauthstate" {
			return cookie
		}
	}
	t.Fatal("no oauthstate cookie in response")
	return nil
}

func TestGoogleLoginSetsStateCookie(t *testing.T) {
	h := NewHandler(&stubService{authURL: "https://accounts.google.com/o/oauth2/auth?state=abc123", state: "abc123"})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/auth/google", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.GoogleLogin(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "https://accounts.google.com/o/oauth2/auth?state=abc123", rec.Header().Get(echo.HeaderLocation))

	cookie := stateCookieFrom(t, rec)
	assert.Equal(t, "abc123", cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestGoogleCallbackWithoutStateCookie(t *testing.T) {
	stub := &stubService{}
	h := NewHandler(stub)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=abc123&code=xyz", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.GoogleCallback(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, stub.callbackCalled, "code must not be exchanged without a verified state")
}

func TestGoogleCallbackStateMismatch(t *testing.T) {
	stub := &stubService{}
	h := NewHandler(stub)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=forged&code=xyz", nil)
	req.AddCookie(&http.Cookie{Name: "oauthstate", Value: "abc123"})
	rec := httptest.NewRecorder()
	require.NoError(t, h.GoogleCallback(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, stub.callbackCalled)
}

func TestGoogleCallbackStateMatch(t *testing.T) {
	stub := &stubService{callbackResp: &models.AuthResponse{AccessToken: "tok"}}
	h := NewHandler(stub)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=abc123&code=xyz", nil)
	req.AddCookie(&http.Cookie{Name: "oauthstate", Value: "abc123"})
	rec := httptest.NewRecorder()
	require.NoError(t, h.GoogleCallback(e.NewContext(req, rec)))

	assert.True(t, stub.callbackCalled)
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "http://localhost:3000/login/success?token=tok", rec.Header().Get(echo.HeaderLocation))

	// the state cookie is single-use and must come back expired
	cookie := stateCookieFrom(t, rec)
	assert.Empty(t, cookie.Value)
	assert.True(t, cookie.Expires.Before(time.Now()))
}
