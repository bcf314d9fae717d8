package party

import (
	"context"
	"testing"

	"party-portal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebsiteLoadWithCountryList(t *testing.T) {
	gw := newFakeGateway()
	gw.seed("galatea.website", map[string]any{"id": int64(1), "name": "shop", "country": int64(10)})
	gw.seed("galatea.website-country", map[string]any{"id": int64(1), "website": int64(1), "country": int64(10)})
	gw.seed("galatea.website-country", map[string]any{"id": int64(2), "website": int64(1), "country": int64(11)})
	gw.seed("country.country", map[string]any{"id": int64(10), "name": "Spain"})
	gw.seed("country.country", map[string]any{"id": int64(11), "name": "Portugal"})

	website, err := NewWebsiteService(gw, 1).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(10), website.CountryID)
	assert.Equal(t, []models.Country{{ID: 10, Name: "Spain"}, {ID: 11, Name: "Portugal"}}, website.Countries)
	assert.Equal(t, []int64{10, 11}, website.CountryChoices())
}

func TestWebsiteLoadFallsBackToDefaultCountry(t *testing.T) {
	gw := newFakeGateway()
	gw.seed("galatea.website", map[string]any{"id": int64(1), "name": "shop", "country": int64(10)})
	gw.seed("country.country", map[string]any{"id": int64(10), "name": "Spain"})

	website, err := NewWebsiteService(gw, 1).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []models.Country{{ID: 10, Name: "Spain"}}, website.Countries)
	assert.Equal(t, []int64{10}, website.CountryChoices())
}

func TestWebsiteLoadUnknownID(t *testing.T) {
	gw := newFakeGateway()

	_, err := NewWebsiteService(gw, 1).Load(context.Background())
	assert.ErrorIs(t, err, models.ErrNotFound)
}
