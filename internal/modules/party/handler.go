package party

import (
	"errors"
	"net/http"
	"strconv"

	"party-portal/internal/models"
	"party-portal/pkg/utils"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	service ServiceInterface
}

func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

// Detail returns the acting party with all of its addresses and contact
// mechanisms, inactive ones included.
func (h *Handler) Detail(c echo.Context) error {
	partyID, err := utils.GetPartyIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: err.Error()})
	}

	detail, err := h.service.Detail(c.Request().Context(), partyID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Party not found"})
		}
		c.Logger().Error("Handler.Detail: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to retrieve party"})
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *Handler) NewAddress(c echo.Context) error {
	partyID, err := utils.GetPartyIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: err.Error()})
	}

	view, err := h.service.NewAddress(c.Request().Context(), partyID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Party not found"})
		}
		c.Logger().Error("Handler.NewAddress: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to prepare address form"})
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) EditAddress(c echo.Context) error {
	partyID, err := utils.GetPartyIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: err.Error()})
	}
	addressID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid address ID"})
	}

	view, err := h.service.EditAddress(c.Request().Context(), partyID, addressID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			// same answer whether the record is missing or foreign-owned
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Address not found"})
		}
		c.Logger().Error("Handler.EditAddress: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to load address"})
	}
	return c.JSON(http.StatusOK, view)
}

// SaveAddress handles both create and update; the service routes on the
// presence of the id form field.
func (h *Handler) SaveAddress(c echo.Context) error {
	partyID, err := utils.GetPartyIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: err.Error()})
	}
	if err := c.Request().ParseForm(); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid form submission"})
	}

	err = h.service.SaveAddress(c.Request().Context(), partyID, c.Request().PostForm)
	if err != nil {
		var verr *models.ValidationError
		switch {
		case errors.As(err, &verr):
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Message: "Error saved address.",
				Errors:  verr.Messages(),
			})
		case errors.Is(err, models.ErrForbidden):
			return c.JSON(http.StatusForbidden, models.ErrorResponse{
				Message: "You try edit an address and not have permissions!",
			})
		case errors.Is(err, models.ErrNotFound):
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Party not found"})
		default:
			c.Logger().Error("Handler.SaveAddress: ", err)
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to save address"})
		}
	}
	return c.JSON(http.StatusOK, models.MessageResponse{Message: "Successfully saved address."})
}

func (h *Handler) NewContactMechanism(c echo.Context) error {
	partyID, err := utils.GetPartyIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: err.Error()})
	}

	view, err := h.service.NewContactMechanism(c.Request().Context(), partyID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Party not found"})
		}
		c.Logger().Error("Handler.NewContactMechanism: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to prepare contact mechanism form"})
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) EditContactMechanism(c echo.Context) error {
	partyID, err := utils.GetPartyIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: err.Error()})
	}
	mechanismID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid contact mechanism ID"})
	}

	view, err := h.service.EditContactMechanism(c.Request().Context(), partyID, mechanismID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Contact mechanism not found"})
		}
		c.Logger().Error("Handler.EditContactMechanism: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to load contact mechanism"})
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) SaveContactMechanism(c echo.Context) error {
	partyID, err := utils.GetPartyIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: err.Error()})
	}
	if err := c.Request().ParseForm(); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid form submission"})
	}

	err = h.service.SaveContactMechanism(c.Request().Context(), partyID, c.Request().PostForm)
	if err != nil {
		var verr *models.ValidationError
		switch {
		case errors.As(err, &verr):
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Message: "Error saved Contact Mechanism!",
				Errors:  verr.Messages(),
			})
		case errors.Is(err, models.ErrForbidden):
			return c.JSON(http.StatusForbidden, models.ErrorResponse{
				Message: "You try edit a contact mechanism and not have permissions!",
			})
		case errors.Is(err, models.ErrNotFound):
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Party not found"})
		default:
			c.Logger().Error("Handler.SaveContactMechanism: ", err)
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to save contact mechanism"})
		}
	}
	return c.JSON(http.StatusOK, models.MessageResponse{Message: "Contact Mechanism saved successfully!"})
}

// AdminPartyJSON and AdminAddressJSON back the manager search widgets. They
// always answer 200 with a results list, empty on store failure.
func (h *Handler) AdminPartyJSON(c echo.Context) error {
	results := h.service.SearchParties(c.Request().Context(), c.QueryParams())
	return c.JSON(http.StatusOK, map[string]any{"results": results})
}

func (h *Handler) AdminAddressJSON(c echo.Context) error {
	results := h.service.SearchAddresses(c.Request().Context(), c.QueryParams())
	return c.JSON(http.StatusOK, map[string]any{"results": results})
}
