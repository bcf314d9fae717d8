package party

import (
	"net/url"
	"strconv"
	"strings"

	"party-portal/internal/models"

	"github.com/go-playground/validator/v10"
)

// validate checks value syntax only (email format); presence and coercion
// rules live in the forms themselves because they depend on whether a field
// was submitted at all, which struct-tag validation cannot see.
var validate = validator.New()

const requiredMessage = "This field is required."

// AddressForm is the typed representation of one submitted address. The
// embedded contact values and the delivery/invoice/shipment-comment fields
// take part in Validate/Load/Reset only when the deployment supports them.
type AddressForm struct {
	caps    Capabilities
	choices []int64

	Name            string `json:"name"`
	Street          string `json:"street"`
	City            string `json:"city"`
	PostalCode      string `json:"postal_code"`
	Country         *int64 `json:"country"`
	Subdivision     *int64 `json:"subdivision"`
	Active          *bool  `json:"active,omitempty"`
	Email           string `json:"email,omitempty"`
	Phone           string `json:"phone,omitempty"`
	Mobile          string `json:"mobile,omitempty"`
	Fax             string `json:"fax,omitempty"`
	Delivery        bool   `json:"delivery,omitempty"`
	Invoice         bool   `json:"invoice,omitempty"`
	ShipmentComment string `json:"comment_shipment,omitempty"`
}

func NewAddressForm(caps Capabilities) *AddressForm {
	return &AddressForm{caps: caps}
}

// SetCountryChoices restricts the accepted country references to the
// website's allowed list.
func (f *AddressForm) SetCountryChoices(ids []int64) {
	f.choices = ids
}

// Validate decodes and checks one raw submission. Street, city, country and
// subdivision are mandatory; name and postal code are not. Country and
// subdivision are integer references where "0" or empty means "no selection",
// which on these required fields is a validation failure rather than a silent
// null.
func (f *AddressForm) Validate(values url.Values) *models.ValidationError {
	var fieldErrs []models.FieldError

	f.Name = strings.TrimSpace(values.Get("name"))
	f.Street = strings.TrimSpace(values.Get("street"))
	if f.Street == "" {
		fieldErrs = append(fieldErrs, models.FieldError{Label: "Street", Message: requiredMessage})
	}
	f.City = strings.TrimSpace(values.Get("city"))
	if f.City == "" {
		fieldErrs = append(fieldErrs, models.FieldError{Label: "City", Message: requiredMessage})
	}
	f.PostalCode = strings.TrimSpace(values.Get("postal_code"))

	country, err := parseReference(values.Get("country"))
	switch {
	case err != nil:
		fieldErrs = append(fieldErrs, models.FieldError{Label: "Country", Message: "Not a valid integer value."})
	case country == nil:
		fieldErrs = append(fieldErrs, models.FieldError{Label: "Country", Message: requiredMessage})
	case len(f.choices) > 0 && !containsID(f.choices, *country):
		fieldErrs = append(fieldErrs, models.FieldError{Label: "Country", Message: "Not a valid choice."})
	}
	f.Country = country

	subdivision, err := parseReference(values.Get("subdivision"))
	switch {
	case err != nil:
		fieldErrs = append(fieldErrs, models.FieldError{Label: "Subdivision", Message: "Not a valid integer value."})
	case subdivision == nil:
		fieldErrs = append(fieldErrs, models.FieldError{Label: "Subdivision", Message: requiredMessage})
	}
	f.Subdivision = subdivision

	f.Active = decodeActive(values, "active")

	if f.caps.EmbedsContacts {
		f.Email = strings.TrimSpace(values.Get("email"))
		f.Phone = strings.TrimSpace(values.Get("phone"))
		f.Mobile = strings.TrimSpace(values.Get("mobile"))
		f.Fax = strings.TrimSpace(values.Get("fax"))
		if f.Email != "" && validate.Var(f.Email, "email") != nil {
			fieldErrs = append(fieldErrs, models.FieldError{Label: "E-Mail", Message: "Invalid email address."})
		}
	}
	if f.caps.HasDeliveryFlag {
		f.Delivery = values.Get("delivery") == "on"
	}
	if f.caps.HasInvoiceFlag {
		f.Invoice = values.Get("invoice") == "on"
	}
	if f.caps.HasShipmentComment {
		f.ShipmentComment = strings.TrimSpace(values.Get("comment_shipment"))
	}

	if len(fieldErrs) > 0 {
		return &models.ValidationError{Fields: fieldErrs}
	}
	return nil
}

// Load populates the form from an existing record for the edit view. Country
// falls back to the website's configured default when the record has none; a
// stored null subdivision is rendered empty and must be picked on the next
// save of the record.
func (f *AddressForm) Load(a *models.Address, w *models.Website) {
	f.Name = a.PartyName
	f.Street = a.Street
	f.City = a.City
	f.PostalCode = a.PostalCode

	switch {
	case a.CountryID != nil:
		f.Country = cloneID(a.CountryID)
	case w != nil && w.CountryID != 0:
		id := w.CountryID
		f.Country = &id
	default:
		f.Country = nil
	}
	f.Subdivision = cloneID(a.SubdivisionID)

	active := a.Active
	f.Active = &active

	if f.caps.EmbedsContacts {
		f.Email = a.Email
		f.Phone = a.Phone
		f.Mobile = a.Mobile
		f.Fax = a.Fax
	}
	if f.caps.HasDeliveryFlag {
		f.Delivery = a.Delivery
	}
	if f.caps.HasInvoiceFlag {
		f.Invoice = a.Invoice
	}
	if f.caps.HasShipmentComment {
		f.ShipmentComment = a.ShipmentComment
	}
}

// Reset clears all field values after a successful save.
func (f *AddressForm) Reset() {
	*f = AddressForm{caps: f.caps, choices: f.choices}
}

// SaveValues is the exact field set to persist for this submission. The
// active flag is only included when it was submitted, so an update never
// overwrites the stored value with a default. Fields outside the capability
// set are never present.
func (f *AddressForm) SaveValues() map[string]any {
	values := map[string]any{
		"party_name":  f.Name,
		"street":      f.Street,
		"city":        f.City,
		"postal_code": f.PostalCode,
		"country":     refValue(f.Country),
		"subdivision": refValue(f.Subdivision),
	}
	if f.Active != nil {
		values["active"] = *f.Active
	}
	if f.caps.HasDeliveryFlag {
		values["delivery"] = f.Delivery
	}
	if f.caps.HasInvoiceFlag {
		values["invoice"] = f.Invoice
	}
	if f.caps.HasShipmentComment {
		values["comment_shipment"] = f.ShipmentComment
	}
	return values
}

// ContactValues stages the non-empty embedded contact values as contact
// mechanism creates. Only meaningful on the create path; returns nil when the
// deployment has no embedded-contact support.
func (f *AddressForm) ContactValues() []map[string]any {
	if !f.caps.EmbedsContacts {
		return nil
	}
	var contacts []map[string]any
	for _, c := range []struct {
		typ   string
		value string
	}{
		{"email", f.Email},
		{"phone", f.Phone},
		{"mobile", f.Mobile},
		{"fax", f.Fax},
	} {
		if c.value == "" {
			continue
		}
		contacts = append(contacts, map[string]any{
			"type":   c.typ,
			"value":  c.value,
			"active": true,
		})
	}
	return contacts
}

// ContactMechanismForm is the typed representation of one submitted contact
// mechanism.
type ContactMechanismForm struct {
	Type   string `json:"type"`
	Value  string `json:"value"`
	Active *bool  `json:"active,omitempty"`
}

func NewContactMechanismForm() *ContactMechanismForm {
	return &ContactMechanismForm{}
}

// Validate decodes and checks one raw submission. Type defaults to phone when
// absent; value is mandatory.
func (f *ContactMechanismForm) Validate(values url.Values) *models.ValidationError {
	var fieldErrs []models.FieldError

	f.Type = strings.TrimSpace(values.Get("type"))
	if f.Type == "" {
		f.Type = "phone"
	}
	if !models.IsContactMechanismType(f.Type) {
		fieldErrs = append(fieldErrs, models.FieldError{Label: "Type", Message: "Not a valid choice."})
	}

	f.Value = strings.TrimSpace(values.Get("value"))
	if f.Value == "" {
		fieldErrs = append(fieldErrs, models.FieldError{Label: "Value", Message: requiredMessage})
	} else if f.Type == "email" && validate.Var(f.Value, "email") != nil {
		fieldErrs = append(fieldErrs, models.FieldError{Label: "Value", Message: "Invalid email address."})
	}

	f.Active = decodeActive(values, "active")

	if len(fieldErrs) > 0 {
		return &models.ValidationError{Fields: fieldErrs}
	}
	return nil
}

// Load populates the form from an existing record for the edit view.
func (f *ContactMechanismForm) Load(cm *models.ContactMechanism) {
	f.Type = cm.Type
	f.Value = cm.Value
	active := cm.Active
	f.Active = &active
}

// Reset clears all field values after a successful save.
func (f *ContactMechanismForm) Reset() {
	*f = ContactMechanismForm{}
}

// SaveValues is the exact field set to persist for this submission.
func (f *ContactMechanismForm) SaveValues() map[string]any {
	values := map[string]any{
		"type":  f.Type,
		"value": f.Value,
	}
	if f.Active != nil {
		values["active"] = *f.Active
	}
	return values
}

// parseReference coerces a submitted reference to an id. "0" and empty both
// mean "no selection" and become nil; whether that is acceptable is the
// caller's required-field decision.
func parseReference(raw string) (*int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "0" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// decodeActive implements the select-style wire encoding: present "0" is
// false, present anything else is true, absent (or empty) leaves the flag
// unset so an update never touches the stored value. This is deliberately
// different from the checkbox "on" rule used for delivery/invoice.
func decodeActive(values url.Values, key string) *bool {
	raw := values.Get(key)
	if raw == "" {
		return nil
	}
	active := raw != "0"
	return &active
}

func cloneID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func refValue(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
