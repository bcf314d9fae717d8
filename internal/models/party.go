package models

// Party is the business-store entity that represents a customer. It is
// read-only from the portal's perspective; only its addresses and contact
// mechanisms can be changed here.
type Party struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// Address is a postal address owned by exactly one party. The owning party is
// set at creation and never reassigned. The Email/Phone/Mobile/Fax and
// Delivery/Invoice/ShipmentComment fields only exist in deployments where the
// capability probe reports them; see modules/party/schema.go.
type Address struct {
	ID              int64  `json:"id"`
	PartyID         int64  `json:"-"`
	PartyName       string `json:"name,omitempty"`
	Street          string `json:"street"`
	City            string `json:"city"`
	PostalCode      string `json:"postal_code,omitempty"`
	CountryID       *int64 `json:"country,omitempty"`
	SubdivisionID   *int64 `json:"subdivision,omitempty"`
	Active          bool   `json:"active"`
	Email           string `json:"email,omitempty"`
	Phone           string `json:"phone,omitempty"`
	Mobile          string `json:"mobile,omitempty"`
	Fax             string `json:"fax,omitempty"`
	Delivery        bool   `json:"delivery,omitempty"`
	Invoice         bool   `json:"invoice,omitempty"`
	ShipmentComment string `json:"comment_shipment,omitempty"`
}

// ContactMechanism is one channel of reaching a party.
type ContactMechanism struct {
	ID      int64  `json:"id"`
	PartyID int64  `json:"-"`
	Type    string `json:"type"`
	Value   string `json:"value"`
	Active  bool   `json:"active"`
}

// ContactMechanismTypes is the fixed set of accepted contact channel types.
var ContactMechanismTypes = []string{
	"phone", "mobile", "fax", "email", "website", "skype", "irc", "jabber",
}

// IsContactMechanismType reports whether t is one of the accepted types.
func IsContactMechanismType(t string) bool {
	for _, v := range ContactMechanismTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Country is a geography entity, supplied by the website collaborator to
// populate form choices. Correctness of the geography data itself is the
// business store's responsibility.
type Country struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Website holds the per-deployment site configuration relevant to the portal:
// the default country and the list of countries a customer may pick from.
type Website struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CountryID int64     `json:"country"`
	Countries []Country `json:"countries"`
}

// CountryChoices returns the ids a submitted country must be drawn from,
// falling back to the single default country when the site has no explicit
// list.
func (w *Website) CountryChoices() []int64 {
	if len(w.Countries) == 0 {
		return []int64{w.CountryID}
	}
	ids := make([]int64, len(w.Countries))
	for i, c := range w.Countries {
		ids[i] = c.ID
	}
	return ids
}

// PartyDetail is the payload of the account overview page: the party plus
// everything it owns, inactive records included so the owner can re-activate
// them.
type PartyDetail struct {
	Party             Party              `json:"party"`
	Addresses         []Address          `json:"addresses"`
	ContactMechanisms []ContactMechanism `json:"contact_mechanisms"`
}
