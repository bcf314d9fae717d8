package auth

import (
	"context"
	"testing"

	"party-portal/internal/gateway"
	"party-portal/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// fakeGateway serves seeded galatea user records by equality predicates.
type fakeGateway struct {
	users []map[string]any
}

func (g *fakeGateway) Search(_ context.Context, kind string, preds []gateway.Predicate, limit int) ([]int64, error) {
	if kind != "galatea.user" {
		return nil, nil
	}
	var ids []int64
	for _, rec := range g.users {
		matched := true
		for _, p := range preds {
			if rec[p.Field] != p.Value {
				matched = false
				break
			}
		}
		if matched {
			ids = append(ids, rec["id"].(int64))
			if limit > 0 && len(ids) == limit {
				break
			}
		}
	}
	return ids, nil
}

func (g *fakeGateway) Browse(_ context.Context, _ string, ids []int64) ([]map[string]any, error) {
	var records []map[string]any
	for _, rec := range g.users {
		for _, id := range ids {
			if rec["id"] == id {
				records = append(records, rec)
			}
		}
	}
	return records, nil
}

func (g *fakeGateway) Create(context.Context, string, map[string]any) (int64, error) {
	return 0, nil
}

func (g *fakeGateway) Write(context.Context, string, []int64, map[string]any) error {
	return nil
}

func (g *fakeGateway) Fields(context.Context, string) ([]string, error) {
	return nil, nil
}

const testSecret = "test-secret"

func seedAccount(t *testing.T, gw *fakeGateway, email, password string, partyID int64, manager, active bool) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	gw.users = append(gw.users, map[string]any{
		"id":            int64(len(gw.users) + 1),
		"email":         email,
		"password_hash": string(hash),
		"party":         partyID,
		"manager":       manager,
		"active":        active,
	})
}

func TestLoginIssuesTokenWithPartyClaims(t *testing.T) {
	gw := &fakeGateway{}
	seedAccount(t, gw, "ana@example.com", "s3cret", 42, true, true)
	svc := NewService(gw, testSecret, "http://localhost:3000", nil)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "ana@example.com", Password: "s3cret"})
	require.NoError(t, err)

	assert.Equal(t, int64(42), resp.PartyID)
	assert.Equal(t, "ana@example.com", resp.Email)

	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(resp.AccessToken, claims, func(*jwt.Token) (any, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)
	assert.Equal(t, int64(42), claims.PartyID)
	assert.True(t, claims.IsManager)
}

func TestLoginWrongPassword(t *testing.T) {
	gw := &fakeGateway{}
	seedAccount(t, gw, "ana@example.com", "s3cret", 42, false, true)
	svc := NewService(gw, testSecret, "", nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ana@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := NewService(&fakeGateway{}, testSecret, "", nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "nobody@example.com", Password: "x"})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestLoginInactiveAccount(t *testing.T) {
	gw := &fakeGateway{}
	seedAccount(t, gw, "ana@example.com", "s3cret", 42, false, false)
	svc := NewService(gw, testSecret, "", nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ana@example.com", Password: "s3cret"})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestLoginAccountWithoutPartyLinkage(t *testing.T) {
	gw := &fakeGateway{}
	seedAccount(t, gw, "ana@example.com", "s3cret", 0, false, true)
	svc := NewService(gw, testSecret, "", nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ana@example.com", Password: "s3cret"})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}
