package party

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"

	"party-portal/internal/gateway"
	"party-portal/internal/models"
	"party-portal/pkg/email"
)

// ServiceInterface is the reconciliation and authorization layer: given a
// submitted form it decides create-vs-update, verifies the submitter owns the
// target record, merges the capability-gated field set and applies the change
// in one store call.
type ServiceInterface interface {
	Detail(ctx context.Context, partyID int64) (*models.PartyDetail, error)

	NewAddress(ctx context.Context, partyID int64) (*AddressView, error)
	EditAddress(ctx context.Context, partyID, addressID int64) (*AddressView, error)
	SaveAddress(ctx context.Context, partyID int64, submission url.Values) error

	NewContactMechanism(ctx context.Context, partyID int64) (*ContactMechanismView, error)
	EditContactMechanism(ctx context.Context, partyID, mechanismID int64) (*ContactMechanismView, error)
	SaveContactMechanism(ctx context.Context, partyID int64, submission url.Values) error

	SearchParties(ctx context.Context, query url.Values) []map[string]any
	SearchAddresses(ctx context.Context, query url.Values) []map[string]any
}

// AddressView is the payload of the new/edit address pages.
type AddressView struct {
	Party     models.Party     `json:"party"`
	Address   *models.Address  `json:"address,omitempty"`
	Form      *AddressForm     `json:"form"`
	Countries []models.Country `json:"countries"`
}

// ContactMechanismView is the payload of the new/edit contact mechanism pages.
type ContactMechanismView struct {
	Party            models.Party             `json:"party"`
	ContactMechanism *models.ContactMechanism `json:"contact_mechanism,omitempty"`
	Form             *ContactMechanismForm    `json:"form"`
	Types            []string                 `json:"types"`
}

type Service struct {
	gw      gateway.Interface
	website WebsiteInterface
	caps    Capabilities
	mailer  email.ServiceInterface // nil disables confirmation mails
}

func NewService(gw gateway.Interface, website WebsiteInterface, caps Capabilities, mailer email.ServiceInterface) ServiceInterface {
	return &Service{gw: gw, website: website, caps: caps, mailer: mailer}
}

// storeErr tags a failed store call; the cause is carried for the logs but
// never interpreted, and the operation is never retried.
func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, models.ErrPersistence, err)
}

// resolveParty maps the session-supplied party id to a live party record.
func (s *Service) resolveParty(ctx context.Context, partyID int64) (models.Party, error) {
	ids, err := s.gw.Search(ctx, "party.party", []gateway.Predicate{gateway.Eq("id", partyID)}, 1)
	if err != nil {
		return models.Party{}, storeErr("service.resolveParty", err)
	}
	if len(ids) == 0 {
		return models.Party{}, models.ErrNotFound
	}
	records, err := s.gw.Browse(ctx, "party.party", ids)
	if err != nil {
		return models.Party{}, storeErr("service.resolveParty", err)
	}
	if len(records) == 0 {
		return models.Party{}, models.ErrNotFound
	}
	return partyFromRecord(records[0]), nil
}

// resolveOwned is the authorization boundary: lookups are always scoped by
// both id and owning party, never id alone, and ignore the active flag so an
// inactive record stays editable by its owner. The result does not reveal
// whether a missing record exists under someone else.
func (s *Service) resolveOwned(ctx context.Context, kind string, recordID, partyID int64) ([]int64, error) {
	return s.gw.Search(ctx, kind, []gateway.Predicate{
		gateway.Eq("party", partyID),
		gateway.Eq("id", recordID),
	}, 1)
}

func (s *Service) Detail(ctx context.Context, partyID int64) (*models.PartyDetail, error) {
	p, err := s.resolveParty(ctx, partyID)
	if err != nil {
		return nil, err
	}
	detail := &models.PartyDetail{Party: p}

	addressIDs, err := s.gw.Search(ctx, "party.address", []gateway.Predicate{gateway.Eq("party", partyID)}, 0)
	if err != nil {
		return nil, storeErr("service.Detail", err)
	}
	addressRecords, err := s.gw.Browse(ctx, "party.address", addressIDs)
	if err != nil {
		return nil, storeErr("service.Detail", err)
	}
	for _, rec := range addressRecords {
		detail.Addresses = append(detail.Addresses, s.addressFromRecord(rec))
	}

	mechanismIDs, err := s.gw.Search(ctx, "party.contact_mechanism", []gateway.Predicate{gateway.Eq("party", partyID)}, 0)
	if err != nil {
		return nil, storeErr("service.Detail", err)
	}
	mechanismRecords, err := s.gw.Browse(ctx, "party.contact_mechanism", mechanismIDs)
	if err != nil {
		return nil, storeErr("service.Detail", err)
	}
	for _, rec := range mechanismRecords {
		detail.ContactMechanisms = append(detail.ContactMechanisms, contactMechanismFromRecord(rec))
	}
	return detail, nil
}

func (s *Service) NewAddress(ctx context.Context, partyID int64) (*AddressView, error) {
	p, err := s.resolveParty(ctx, partyID)
	if err != nil {
		return nil, err
	}
	website, err := s.website.Load(ctx)
	if err != nil {
		return nil, err
	}

	form := NewAddressForm(s.caps)
	form.SetCountryChoices(website.CountryChoices())
	country := website.CountryID
	form.Country = &country
	active := true
	form.Active = &active
	// new addresses come pre-checked for delivery and invoice use
	if s.caps.HasDeliveryFlag {
		form.Delivery = true
	}
	if s.caps.HasInvoiceFlag {
		form.Invoice = true
	}

	return &AddressView{Party: p, Form: form, Countries: website.Countries}, nil
}

func (s *Service) EditAddress(ctx context.Context, partyID, addressID int64) (*AddressView, error) {
	ids, err := s.resolveOwned(ctx, "party.address", addressID, partyID)
	if err != nil {
		return nil, storeErr("service.EditAddress", err)
	}
	if len(ids) == 0 {
		// a direct view of a missing or foreign record is a plain not-found
		return nil, models.ErrNotFound
	}
	records, err := s.gw.Browse(ctx, "party.address", ids)
	if err != nil {
		return nil, storeErr("service.EditAddress", err)
	}
	if len(records) == 0 {
		return nil, models.ErrNotFound
	}
	address := s.addressFromRecord(records[0])

	p, err := s.resolveParty(ctx, partyID)
	if err != nil {
		return nil, err
	}
	website, err := s.website.Load(ctx)
	if err != nil {
		return nil, err
	}

	form := NewAddressForm(s.caps)
	form.SetCountryChoices(website.CountryChoices())
	form.Load(&address, website)

	return &AddressView{Party: p, Address: &address, Form: form, Countries: website.Countries}, nil
}

// SaveAddress reconciles one address submission: resolve the acting party,
// validate, then route on the presence of a record id. An absent id creates a
// record bound to the acting party; a present id must resolve through the
// ownership check or the whole submission is rejected with no mutation.
func (s *Service) SaveAddress(ctx context.Context, partyID int64, submission url.Values) error {
	if _, err := s.resolveParty(ctx, partyID); err != nil {
		return err
	}
	website, err := s.website.Load(ctx)
	if err != nil {
		return err
	}

	form := NewAddressForm(s.caps)
	form.SetCountryChoices(website.CountryChoices())
	if verr := form.Validate(submission); verr != nil {
		return verr
	}
	values := form.SaveValues()

	if raw := strings.TrimSpace(submission.Get("id")); raw != "" {
		addressID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			// a garbled id can never match an owned record
			return models.ErrForbidden
		}
		ids, err := s.resolveOwned(ctx, "party.address", addressID, partyID)
		if err != nil {
			return storeErr("service.SaveAddress", err)
		}
		if len(ids) == 0 {
			return models.ErrForbidden
		}
		// partial update of the validated field set only; the owning party
		// linkage is never part of it
		if err := s.gw.Write(ctx, "party.address", ids, values); err != nil {
			return storeErr("service.SaveAddress", err)
		}
	} else {
		values["party"] = partyID
		if contacts := form.ContactValues(); len(contacts) > 0 {
			for _, contact := range contacts {
				contact["party"] = partyID
			}
			// nested creates ride in the same store call as the address
			values["contact_mechanisms"] = contacts
		}
		if _, ok := values["active"]; !ok {
			values["active"] = true
		}
		if _, err := s.gw.Create(ctx, "party.address", values); err != nil {
			return storeErr("service.SaveAddress", err)
		}
	}

	form.Reset()
	s.notifySaved(ctx, partyID, "address")
	return nil
}

func (s *Service) NewContactMechanism(ctx context.Context, partyID int64) (*ContactMechanismView, error) {
	p, err := s.resolveParty(ctx, partyID)
	if err != nil {
		return nil, err
	}
	form := NewContactMechanismForm()
	form.Type = "phone"
	active := true
	form.Active = &active
	return &ContactMechanismView{Party: p, Form: form, Types: models.ContactMechanismTypes}, nil
}

func (s *Service) EditContactMechanism(ctx context.Context, partyID, mechanismID int64) (*ContactMechanismView, error) {
	ids, err := s.resolveOwned(ctx, "party.contact_mechanism", mechanismID, partyID)
	if err != nil {
		return nil, storeErr("service.EditContactMechanism", err)
	}
	if len(ids) == 0 {
		return nil, models.ErrNotFound
	}
	records, err := s.gw.Browse(ctx, "party.contact_mechanism", ids)
	if err != nil {
		return nil, storeErr("service.EditContactMechanism", err)
	}
	if len(records) == 0 {
		return nil, models.ErrNotFound
	}
	mechanism := contactMechanismFromRecord(records[0])

	p, err := s.resolveParty(ctx, partyID)
	if err != nil {
		return nil, err
	}

	form := NewContactMechanismForm()
	form.Load(&mechanism)
	return &ContactMechanismView{
		Party:            p,
		ContactMechanism: &mechanism,
		Form:             form,
		Types:            models.ContactMechanismTypes,
	}, nil
}

// SaveContactMechanism mirrors SaveAddress for the contact mechanism kind.
func (s *Service) SaveContactMechanism(ctx context.Context, partyID int64, submission url.Values) error {
	if _, err := s.resolveParty(ctx, partyID); err != nil {
		return err
	}

	form := NewContactMechanismForm()
	if verr := form.Validate(submission); verr != nil {
		return verr
	}
	values := form.SaveValues()

	if raw := strings.TrimSpace(submission.Get("id")); raw != "" {
		mechanismID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return models.ErrForbidden
		}
		ids, err := s.resolveOwned(ctx, "party.contact_mechanism", mechanismID, partyID)
		if err != nil {
			return storeErr("service.SaveContactMechanism", err)
		}
		if len(ids) == 0 {
			return models.ErrForbidden
		}
		if err := s.gw.Write(ctx, "party.contact_mechanism", ids, values); err != nil {
			return storeErr("service.SaveContactMechanism", err)
		}
	} else {
		values["party"] = partyID
		if _, ok := values["active"]; !ok {
			values["active"] = true
		}
		if _, err := s.gw.Create(ctx, "party.contact_mechanism", values); err != nil {
			return storeErr("service.SaveContactMechanism", err)
		}
	}

	form.Reset()
	s.notifySaved(ctx, partyID, "contact mechanism")
	return nil
}

// notifySaved sends the change confirmation to the party's primary email
// contact. Failures are logged and never affect the request outcome.
func (s *Service) notifySaved(ctx context.Context, partyID int64, kind string) {
	if s.mailer == nil {
		return
	}
	ids, err := s.gw.Search(ctx, "party.contact_mechanism", []gateway.Predicate{
		gateway.Eq("party", partyID),
		gateway.Eq("type", "email"),
	}, 1)
	if err != nil || len(ids) == 0 {
		return
	}
	records, err := s.gw.Browse(ctx, "party.contact_mechanism", ids)
	if err != nil || len(records) == 0 {
		return
	}
	to := asString(records[0]["value"])
	if to == "" {
		return
	}
	subject, body := email.SavedNotification(kind)
	if err := s.mailer.SendEmail(ctx, to, subject, body, ""); err != nil {
		log.Printf("ERROR: failed to send %s confirmation email to %s: %v", kind, to, err)
	}
}

func (s *Service) SearchParties(ctx context.Context, query url.Values) []map[string]any {
	return s.searchRead(ctx, "party.party", query)
}

func (s *Service) SearchAddresses(ctx context.Context, query url.Values) []map[string]any {
	return s.searchRead(ctx, "party.address", query)
}

// searchRead backs the manager-only JSON listing endpoints. A free-text q
// becomes a rec_name pattern; otherwise every query pair is an equality
// predicate. This listing plumbing degrades to an empty result set on store
// failure; the save path above never does.
func (s *Service) searchRead(ctx context.Context, kind string, query url.Values) []map[string]any {
	var preds []gateway.Predicate
	if q := query.Get("q"); q != "" {
		preds = append(preds, gateway.ILike("rec_name", "%"+q+"%"))
	} else {
		for key, vals := range query {
			if key == "q" || key == "fields_names" || len(vals) == 0 {
				continue
			}
			preds = append(preds, gateway.Eq(key, coerceParam(vals[0])))
		}
	}

	fieldsNames := strings.Split(query.Get("fields_names"), ",")
	if query.Get("fields_names") == "" {
		fieldsNames = []string{"rec_name"}
	}

	ids, err := s.gw.Search(ctx, kind, preds, 0)
	if err != nil {
		return []map[string]any{}
	}
	records, err := s.gw.Browse(ctx, kind, ids)
	if err != nil {
		return []map[string]any{}
	}

	results := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		row := map[string]any{"id": rec["id"]}
		for _, name := range fieldsNames {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			row[name] = rec[name]
		}
		results = append(results, row)
	}
	return results
}

// coerceParam turns an all-digit query value into an integer, matching how
// the store compares reference columns.
func coerceParam(raw string) any {
	if raw == "" {
		return raw
	}
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return id
	}
	return raw
}
