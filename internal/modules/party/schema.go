package party

import (
	"context"
	"fmt"

	"party-portal/internal/gateway"
)

// Capabilities describes which optional address features exist in the current
// deployment of the business store. It is computed once at startup and
// injected everywhere; a missing capability means the matching form field and
// its submit/load/reset logic are skipped entirely, never defaulted.
type Capabilities struct {
	EmbedsContacts     bool `json:"embeds_contacts"`
	HasDeliveryFlag    bool `json:"has_delivery_flag"`
	HasInvoiceFlag     bool `json:"has_invoice_flag"`
	HasShipmentComment bool `json:"has_shipment_comment"`
}

// ProbeCapabilities inspects the store's field sets for the address and
// contact mechanism kinds. Embedded-contact support is detected by the
// contact mechanism carrying an address linkage; the remaining flags are
// plain optional columns on the address itself.
func ProbeCapabilities(ctx context.Context, gw gateway.Interface) (Capabilities, error) {
	addressFields, err := gw.Fields(ctx, "party.address")
	if err != nil {
		return Capabilities{}, fmt.Errorf("party.ProbeCapabilities: %w", err)
	}
	contactFields, err := gw.Fields(ctx, "party.contact_mechanism")
	if err != nil {
		return Capabilities{}, fmt.Errorf("party.ProbeCapabilities: %w", err)
	}

	return Capabilities{
		EmbedsContacts:     contains(contactFields, "address"),
		HasDeliveryFlag:    contains(addressFields, "delivery"),
		HasInvoiceFlag:     contains(addressFields, "invoice"),
		HasShipmentComment: contains(addressFields, "comment_shipment"),
	}, nil
}

func contains(fields []string, name string) bool {
	for _, f := range fields {
		if f == name {
			return true
		}
	}
	return false
}
