package party

import (
	"net/url"
	"testing"

	"party-portal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allCaps() Capabilities {
	return Capabilities{
		EmbedsContacts:     true,
		HasDeliveryFlag:    true,
		HasInvoiceFlag:     true,
		HasShipmentComment: true,
	}
}

func validAddressValues() url.Values {
	return url.Values{
		"name":        {"Office"},
		"street":      {"Calle Mayor 1"},
		"city":        {"Madrid"},
		"postal_code": {"28001"},
		"country":     {"10"},
		"subdivision": {"20"},
	}
}

func messageFor(t *testing.T, verr *models.ValidationError, label string) string {
	t.Helper()
	for _, f := range verr.Fields {
		if f.Label == label {
			return f.Message
		}
	}
	t.Fatalf("no validation error for %q in %v", label, verr.Fields)
	return ""
}

func TestAddressFormValidateAccepts(t *testing.T) {
	form := NewAddressForm(allCaps())
	form.SetCountryChoices([]int64{10, 11})

	verr := form.Validate(validAddressValues())
	require.Nil(t, verr)

	assert.Equal(t, "Office", form.Name)
	assert.Equal(t, "Calle Mayor 1", form.Street)
	assert.Equal(t, "Madrid", form.City)
	assert.Equal(t, "28001", form.PostalCode)
	require.NotNil(t, form.Country)
	assert.Equal(t, int64(10), *form.Country)
	require.NotNil(t, form.Subdivision)
	assert.Equal(t, int64(20), *form.Subdivision)
	assert.Nil(t, form.Active)
}

func TestAddressFormValidateRequiredFields(t *testing.T) {
	form := NewAddressForm(allCaps())
	form.SetCountryChoices([]int64{10})

	verr := form.Validate(url.Values{})
	require.NotNil(t, verr)

	assert.Equal(t, "This field is required.", messageFor(t, verr, "Street"))
	assert.Equal(t, "This field is required.", messageFor(t, verr, "City"))
	assert.Equal(t, "This field is required.", messageFor(t, verr, "Country"))
	assert.Equal(t, "This field is required.", messageFor(t, verr, "Subdivision"))
}

func TestAddressFormValidateCountryCoercion(t *testing.T) {
	tests := []struct {
		name    string
		country string
		message string
	}{
		{"zero means no selection", "0", "This field is required."},
		{"empty means no selection", "", "This field is required."},
		{"garbage is not an integer", "abc", "Not a valid integer value."},
		{"outside the choice list", "99", "Not a valid choice."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := NewAddressForm(allCaps())
			form.SetCountryChoices([]int64{10, 11})

			values := validAddressValues()
			values.Set("country", tt.country)
			verr := form.Validate(values)
			require.NotNil(t, verr)
			assert.Equal(t, tt.message, messageFor(t, verr, "Country"))
		})
	}
}

func TestAddressFormValidateActiveTriState(t *testing.T) {
	form := NewAddressForm(allCaps())
	form.SetCountryChoices([]int64{10})

	values := validAddressValues()
	require.Nil(t, form.Validate(values))
	assert.Nil(t, form.Active, "absent active must stay unset")

	values.Set("active", "0")
	require.Nil(t, form.Validate(values))
	require.NotNil(t, form.Active)
	assert.False(t, *form.Active)

	values.Set("active", "1")
	require.Nil(t, form.Validate(values))
	require.NotNil(t, form.Active)
	assert.True(t, *form.Active)

	// anything non-zero reads as true under the select encoding
	values.Set("active", "yes")
	require.Nil(t, form.Validate(values))
	require.NotNil(t, form.Active)
	assert.True(t, *form.Active)
}

func TestAddressFormValidateCheckboxes(t *testing.T) {
	form := NewAddressForm(allCaps())
	form.SetCountryChoices([]int64{10})

	values := validAddressValues()
	values.Set("delivery", "on")
	values.Set("invoice", "1") // checkboxes only ever submit "on"
	require.Nil(t, form.Validate(values))

	assert.True(t, form.Delivery)
	assert.False(t, form.Invoice)
}

func TestAddressFormValidateEmailSyntax(t *testing.T) {
	form := NewAddressForm(allCaps())
	form.SetCountryChoices([]int64{10})

	values := validAddressValues()
	values.Set("email", "not-an-email")
	verr := form.Validate(values)
	require.NotNil(t, verr)
	assert.Equal(t, "Invalid email address.", messageFor(t, verr, "E-Mail"))
}

func TestAddressFormCapabilityGating(t *testing.T) {
	form := NewAddressForm(Capabilities{})
	form.SetCountryChoices([]int64{10})

	values := validAddressValues()
	values.Set("email", "not-an-email")
	values.Set("delivery", "on")
	values.Set("comment_shipment", "leave at door")
	require.Nil(t, form.Validate(values), "gated fields must not be validated")

	saved := form.SaveValues()
	assert.NotContains(t, saved, "delivery")
	assert.NotContains(t, saved, "invoice")
	assert.NotContains(t, saved, "comment_shipment")
	assert.Nil(t, form.ContactValues())
}

func TestAddressFormSaveValuesOmitsUnsetActive(t *testing.T) {
	form := NewAddressForm(allCaps())
	form.SetCountryChoices([]int64{10})

	require.Nil(t, form.Validate(validAddressValues()))
	saved := form.SaveValues()

	assert.NotContains(t, saved, "active")
	assert.Equal(t, int64(10), saved["country"])
	assert.Equal(t, int64(20), saved["subdivision"])
	assert.Equal(t, "Calle Mayor 1", saved["street"])
}

func TestAddressFormContactValues(t *testing.T) {
	form := NewAddressForm(allCaps())
	form.SetCountryChoices([]int64{10})

	values := validAddressValues()
	values.Set("email", "ana@example.com")
	values.Set("mobile", "+34600000000")
	require.Nil(t, form.Validate(values))

	contacts := form.ContactValues()
	require.Len(t, contacts, 2)
	assert.Equal(t, map[string]any{"type": "email", "value": "ana@example.com", "active": true}, contacts[0])
	assert.Equal(t, map[string]any{"type": "mobile", "value": "+34600000000", "active": true}, contacts[1])
}

func TestAddressFormLoadCountryFallback(t *testing.T) {
	form := NewAddressForm(allCaps())
	website := &models.Website{ID: 1, CountryID: 10}

	form.Load(&models.Address{Street: "Calle Mayor 1", City: "Madrid", Active: true}, website)

	require.NotNil(t, form.Country)
	assert.Equal(t, int64(10), *form.Country)
	assert.Nil(t, form.Subdivision, "a stored null subdivision renders empty")
	require.NotNil(t, form.Active)
	assert.True(t, *form.Active)
}

func TestAddressFormResetKeepsConfiguration(t *testing.T) {
	form := NewAddressForm(allCaps())
	form.SetCountryChoices([]int64{10})

	require.Nil(t, form.Validate(validAddressValues()))
	form.Reset()

	assert.Empty(t, form.Street)
	assert.Nil(t, form.Country)

	// choices survive the reset, so an out-of-list country still fails
	values := validAddressValues()
	values.Set("country", "99")
	verr := form.Validate(values)
	require.NotNil(t, verr)
	assert.Equal(t, "Not a valid choice.", messageFor(t, verr, "Country"))
}

func TestContactMechanismFormValidate(t *testing.T) {
	form := NewContactMechanismForm()

	verr := form.Validate(url.Values{"value": {"+34911111111"}})
	require.Nil(t, verr)
	assert.Equal(t, "phone", form.Type, "type defaults to phone")

	verr = form.Validate(url.Values{"type": {"pigeon"}, "value": {"x"}})
	require.NotNil(t, verr)
	assert.Equal(t, "Not a valid choice.", messageFor(t, verr, "Type"))

	verr = form.Validate(url.Values{"type": {"phone"}})
	require.NotNil(t, verr)
	assert.Equal(t, "This field is required.", messageFor(t, verr, "Value"))

	verr = form.Validate(url.Values{"type": {"email"}, "value": {"nope"}})
	require.NotNil(t, verr)
	assert.Equal(t, "Invalid email address.", messageFor(t, verr, "Value"))
}

func TestContactMechanismFormSaveValues(t *testing.T) {
	form := NewContactMechanismForm()
	require.Nil(t, form.Validate(url.Values{"type": {"email"}, "value": {"ana@example.com"}}))

	saved := form.SaveValues()
	assert.Equal(t, "email", saved["type"])
	assert.Equal(t, "ana@example.com", saved["value"])
	assert.NotContains(t, saved, "active")

	require.Nil(t, form.Validate(url.Values{"type": {"email"}, "value": {"ana@example.com"}, "active": {"0"}}))
	saved = form.SaveValues()
	assert.Equal(t, false, saved["active"])
}
