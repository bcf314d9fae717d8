package party

import (
	"context"
	"fmt"

	"party-portal/internal/gateway"
	"party-portal/internal/models"
)

// WebsiteInterface supplies the per-deployment site configuration: the
// allowed country list and the default country. The reconciler only uses it
// to populate and bound form choices; geography correctness stays with the
// business store.
type WebsiteInterface interface {
	Load(ctx context.Context) (*models.Website, error)
}

type WebsiteService struct {
	gw        gateway.Interface
	websiteID int64
}

func NewWebsiteService(gw gateway.Interface, websiteID int64) WebsiteInterface {
	return &WebsiteService{gw: gw, websiteID: websiteID}
}

// Load fetches the configured website and its country list, fresh per
// request like everything else in this module.
func (s *WebsiteService) Load(ctx context.Context) (*models.Website, error) {
	ids, err := s.gw.Search(ctx, "galatea.website", []gateway.Predicate{gateway.Eq("id", s.websiteID)}, 1)
	if err != nil {
		return nil, fmt.Errorf("website.Load: %w", err)
	}
	if len(ids) == 0 {
		return nil, models.ErrNotFound
	}
	records, err := s.gw.Browse(ctx, "galatea.website", ids)
	if err != nil {
		return nil, fmt.Errorf("website.Load: %w", err)
	}
	if len(records) == 0 {
		return nil, models.ErrNotFound
	}
	rec := records[0]
	website := &models.Website{
		ID:        asInt64(rec["id"]),
		Name:      asString(rec["name"]),
		CountryID: asInt64(rec["country"]),
	}

	countryIDs, err := s.allowedCountryIDs(ctx, website)
	if err != nil {
		return nil, err
	}
	countries, err := s.gw.Browse(ctx, "country.country", countryIDs)
	if err != nil {
		return nil, fmt.Errorf("website.Load: %w", err)
	}
	for _, c := range countries {
		website.Countries = append(website.Countries, models.Country{
			ID:   asInt64(c["id"]),
			Name: asString(c["name"]),
		})
	}
	return website, nil
}

// allowedCountryIDs resolves the site's explicit country list, falling back
// to the single default country when none is configured.
func (s *WebsiteService) allowedCountryIDs(ctx context.Context, website *models.Website) ([]int64, error) {
	joinIDs, err := s.gw.Search(ctx, "galatea.website-country",
		[]gateway.Predicate{gateway.Eq("website", website.ID)}, 0)
	if err != nil {
		return nil, fmt.Errorf("website.allowedCountryIDs: %w", err)
	}
	if len(joinIDs) == 0 {
		return []int64{website.CountryID}, nil
	}
	joins, err := s.gw.Browse(ctx, "galatea.website-country", joinIDs)
	if err != nil {
		return nil, fmt.Errorf("website.allowedCountryIDs: %w", err)
	}
	ids := make([]int64, 0, len(joins))
	for _, join := range joins {
		ids = append(ids, asInt64(join["country"]))
	}
	return ids, nil
}
