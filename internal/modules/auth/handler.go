package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"party-portal/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	service  ServiceInterface
	validate *validator.Validate // For request body validation
}

func NewHandler(service ServiceInterface) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	authResponse, err := h.service.Login(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Invalid email or password"})
		}
		c.Logger().Error("Handler.Login: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to log in"})
	}

	return c.JSON(http.StatusOK, authResponse)
}

// GoogleLogin redirects the user to Google's consent screen. The state issued
// for this attempt is kept in an HttpOnly cookie so the callback can verify
// the redirect actually originated here.
func (h *Handler) GoogleLogin(c echo.Context) error {
	authURL, state, err := h.service.HandleGoogleLogin()
	if err != nil {
		c.Logger().Error("Handler.GoogleLogin: failed to generate auth URL: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Could not initiate Google login"})
	}

	cookie := new(http.Cookie)
	cookie.Name = "oauthstate"
	cookie.Value = state
	cookie.Expires = time.Now().Add(10 * time.Minute)
	cookie.Path = "/"
	cookie.HttpOnly = true
	cookie.Secure = true
	cookie.SameSite = http.SameSiteLaxMode
	c.SetCookie(cookie)

	return c.Redirect(http.StatusTemporaryRedirect, authURL)
}

// GoogleCallback verifies the state parameter against the login cookie,
// completes the OAuth flow and hands the token to the frontend via a
// redirect. The state cookie is single-use.
func (h *Handler) GoogleCallback(c echo.Context) error {
	stateCookie, err := c.Cookie("oauthstate")
	if err != nil {
		c.Logger().Error("Handler.GoogleCallback: could not read state cookie: ", err)
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Invalid or missing state cookie"})
	}
	if c.QueryParam("state") != stateCookie.Value {
		c.Logger().Error("Handler.GoogleCallback: state parameter mismatch")
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Invalid state parameter"})
	}

	stateCookie.Value = ""
	stateCookie.Expires = time.Unix(0, 0)
	c.SetCookie(stateCookie)

	code := c.QueryParam("code")
	if code == "" {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Authorization code not provided"})
	}

	authResponse, err := h.service.HandleGoogleCallback(c.Request().Context(), code)
	if err != nil {
		c.Logger().Error("Handler.GoogleCallback: ", err)
		return c.Redirect(http.StatusTemporaryRedirect, fmt.Sprintf("%s/login/error", h.service.ClientOrigin()))
	}

	redirectURL := fmt.Sprintf("%s/login/success?token=%s", h.service.ClientOrigin(), authResponse.AccessToken)
	return c.Redirect(http.StatusTemporaryRedirect, redirectURL)
}
