package api

import (
	"net/http"

	"party-portal/internal/api/middleware"
	"party-portal/internal/modules/auth"
	"party-portal/internal/modules/party"

	"github.com/labstack/echo/v4"
)

// SetupRoutes sets up all the API endpoints for the application.
func SetupRoutes(
	e *echo.Echo,
	authHandler *auth.Handler,
	partyHandler *party.Handler,
	jwtSecret string,
) {
	// Initialize the JWT authentication middleware
	authMiddleware := middleware.JWTAuth(jwtSecret)
	// Manager-only authorization for the admin JSON endpoints
	managerRequired := middleware.ManagerRequired()

	// --- Public Routes ---
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "Welcome to the Party Self-Service Portal!"})
	})

	authGroup := e.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.GET("/google", authHandler.GoogleLogin)
		authGroup.GET("/google/callback", authHandler.GoogleCallback)
	}

	// --- Customer Self-Service Routes ---
	partyGroup := e.Group("/party", authMiddleware)
	{
		partyGroup.GET("", partyHandler.Detail)

		partyGroup.GET("/addresses/new", partyHandler.NewAddress)
		partyGroup.GET("/addresses/:id", partyHandler.EditAddress)
		partyGroup.POST("/addresses/save", partyHandler.SaveAddress)

		partyGroup.GET("/contact-mechanisms/new", partyHandler.NewContactMechanism)
		partyGroup.GET("/contact-mechanisms/:id", partyHandler.EditContactMechanism)
		partyGroup.POST("/contact-mechanisms/save", partyHandler.SaveContactMechanism)
	}

	// --- Admin Routes ---
	adminGroup := e.Group("/admin", authMiddleware, managerRequired)
	{
		adminGroup.GET("/json/party", partyHandler.AdminPartyJSON)
		adminGroup.GET("/json/address", partyHandler.AdminAddressJSON)
	}
}
