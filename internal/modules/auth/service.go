package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"party-portal/internal/gateway"
	"party-portal/internal/models"
	"party-portal/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
)

// ServiceInterface authenticates portal accounts and issues the JWT that the
// rest of the application trusts for the acting party id. Accounts are
// provisioned in the business store; the portal never creates them.
type ServiceInterface interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	HandleGoogleLogin() (authURL, state string, err error)
	HandleGoogleCallback(ctx context.Context, code string) (*models.AuthResponse, error)
	ClientOrigin() string
}

type Service struct {
	gw                gateway.Interface
	jwtSecret         string
	clientOrigin      string
	googleOAuthConfig *oauth2.Config
}

func NewService(gw gateway.Interface, jwtSecret, clientOrigin string, googleOAuthConfig *oauth2.Config) ServiceInterface {
	return &Service{
		gw:                gw,
		jwtSecret:         jwtSecret,
		clientOrigin:      clientOrigin,
		googleOAuthConfig: googleOAuthConfig,
	}
}

func (s *Service) ClientOrigin() string {
	return s.clientOrigin
}

// portalAccount is the slice of a galatea user record the portal cares about.
type portalAccount struct {
	ID           int64
	Email        string
	PasswordHash string
	PartyID      int64
	Manager      bool
}

func (s *Service) findAccountByEmail(ctx context.Context, email string) (*portalAccount, error) {
	ids, err := s.gw.Search(ctx, "galatea.user", []gateway.Predicate{
		gateway.Eq("email", email),
		gateway.Eq("active", true),
	}, 1)
	if err != nil {
		return nil, fmt.Errorf("service.findAccountByEmail: %w", err)
	}
	if len(ids) == 0 {
		return nil, models.ErrNotFound
	}
	records, err := s.gw.Browse(ctx, "galatea.user", ids)
	if err != nil {
		return nil, fmt.Errorf("service.findAccountByEmail: %w", err)
	}
	if len(records) == 0 {
		return nil, models.ErrNotFound
	}
	rec := records[0]
	account := &portalAccount{
		ID:      asInt64(rec["id"]),
		Email:   asString(rec["email"]),
		Manager: asBool(rec["manager"]),
	}
	account.PasswordHash = asString(rec["password_hash"])
	account.PartyID = asInt64(rec["party"])
	if account.PartyID == 0 {
		// an account without a party linkage cannot use the portal
		return nil, models.ErrNotFound
	}
	return account, nil
}

func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	account, err := s.findAccountByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("service.Login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	return s.generateAuthResponse(account)
}

func (s *Service) generateAuthResponse(account *portalAccount) (*models.AuthResponse, error) {
	claims := &models.JwtCustomClaims{
		PartyID:   account.PartyID,
		Email:     account.Email,
		IsManager: account.Manager,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 24 * 30)),
		},
	}

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := accessToken.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	return &models.AuthResponse{
		AccessToken: signed,
		PartyID:     account.PartyID,
		Email:       account.Email,
	}, nil
}

// GoogleUserInfo is the subset of Google's userinfo response we consume.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

// HandleGoogleLogin generates the consent-screen redirect URL and the state
// parameter the handler must store and verify on the callback.
func (s *Service) HandleGoogleLogin() (string, string, error) {
	state, err := utils.GenerateSecureToken(16)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate state for google login: %w", err)
	}
	return s.googleOAuthConfig.AuthCodeURL(state), state, nil
}

// HandleGoogleCallback exchanges the authorization code, fetches the user's
// info and maps the verified email onto a provisioned portal account. There
// is no auto-signup: an unknown email is an invalid login.
func (s *Service) HandleGoogleCallback(ctx context.Context, code string) (*models.AuthResponse, error) {
	token, err := s.googleOAuthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("google code exchange failed: %w", err)
	}

	response, err := http.Get("https://www.googleapis.com/oauth2/v2/userinfo?access_token=" + token.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed getting user info from google: %w", err)
	}
	defer response.Body.Close()

	contents, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed reading user info response body: %w", err)
	}

	var userInfo GoogleUserInfo
	if err := json.Unmarshal(contents, &userInfo); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user info: %w", err)
	}
	if !userInfo.VerifiedEmail {
		return nil, models.ErrInvalidCredentials
	}

	account, err := s.findAccountByEmail(ctx, userInfo.Email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("service.HandleGoogleCallback: %w", err)
	}
	return s.generateAuthResponse(account)
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int32:
		return int64(n)
	case int:
		return int64(n)
	}
	return 0
}
