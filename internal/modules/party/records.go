package party

import "party-portal/internal/models"

// Helpers to hydrate gateway record maps into typed models. Browse returns
// whatever the store driver yields, so integer widths are normalized here.

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
	case float64:
		return int64(n)
	}
	return 0
}

func asInt64Ptr(v any) *int64 {
	if v == nil {
		return nil
	}
	n := asInt64(v)
	return &n
}

func partyFromRecord(rec map[string]any) models.Party {
	return models.Party{
		ID:     asInt64(rec["id"]),
		Name:   asString(rec["rec_name"]),
		Active: asBool(rec["active"]),
	}
}

func (s *Service) addressFromRecord(rec map[string]any) models.Address {
	a := models.Address{
		ID:            asInt64(rec["id"]),
		PartyID:       asInt64(rec["party"]),
		PartyName:     asString(rec["party_name"]),
		Street:        asString(rec["street"]),
		City:          asString(rec["city"]),
		PostalCode:    asString(rec["postal_code"]),
		CountryID:     asInt64Ptr(rec["country"]),
		SubdivisionID: asInt64Ptr(rec["subdivision"]),
		Active:        asBool(rec["active"]),
	}
	if s.caps.EmbedsContacts {
		a.Email = asString(rec["email"])
		a.Phone = asString(rec["phone"])
		a.Mobile = asString(rec["mobile"])
		a.Fax = asString(rec["fax"])
	}
	if s.caps.HasDeliveryFlag {
		a.Delivery = asBool(rec["delivery"])
	}
	if s.caps.HasInvoiceFlag {
		a.Invoice = asBool(rec["invoice"])
	}
	if s.caps.HasShipmentComment {
		a.ShipmentComment = asString(rec["comment_shipment"])
	}
	return a
}

func contactMechanismFromRecord(rec map[string]any) models.ContactMechanism {
	return models.ContactMechanism{
		ID:      asInt64(rec["id"]),
		PartyID: asInt64(rec["party"]),
		Type:    asString(rec["type"]),
		Value:   asString(rec["value"]),
		Active:  asBool(rec["active"]),
	}
}
