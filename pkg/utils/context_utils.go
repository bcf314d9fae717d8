package utils

import (
	"errors"

	"github.com/labstack/echo/v4"
)

// GetPartyIDFromContext reads the acting party id placed there by the JWT
// middleware.
func GetPartyIDFromContext(c echo.Context) (int64, error) {
	partyID, ok := c.Get("partyID").(int64)
	if !ok || partyID == 0 {
		return 0, errors.New("party id missing from request context")
	}
	return partyID, nil
}
