package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"party-portal/internal/api"
	"party-portal/internal/config"
	"party-portal/internal/gateway"
	"party-portal/internal/modules/auth"
	"party-portal/internal/modules/party"
	"party-portal/pkg/email"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

func main() {
	// 1. --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	e := echo.New()

	// 2. --- Middleware ---
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.ClientOrigin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// 3. --- Business Store Connection ---
	dbConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to parse database configuration: %v", err)
	}

	dbPool, err := pgxpool.NewWithConfig(context.Background(), dbConfig)
	if err != nil {
		log.Fatalf("Unable to create connection pool: %v", err)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(context.Background()); err != nil {
		log.Fatalf("Unable to ping database: %v", err)
	}
	e.Logger.Info("Successfully connected to the business store!")

	store := gateway.NewPostgres(dbPool)

	// The capability set does not vary per request; probe it once and inject.
	caps, err := party.ProbeCapabilities(context.Background(), store)
	if err != nil {
		log.Fatalf("Unable to probe store capabilities: %v", err)
	}
	e.Logger.Infof("Store capabilities: %+v", caps)

	// Confirmation mail is optional; without SES settings it stays off.
	var mailer email.ServiceInterface
	if cfg.AWSRegion != "" && cfg.EmailFrom != "" {
		sender, err := email.NewSESV2Sender(context.Background(), cfg.AWSRegion, cfg.EmailFrom)
		if err != nil {
			log.Fatalf("Unable to initialize SES sender: %v", err)
		}
		mailer = sender
	}

	googleOAuthConfig := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email"},
		Endpoint:     google.Endpoint,
	}

	// 4. --- Dependency Injection (Wiring everything up) ---
	// --- Auth Module ---
	authService := auth.NewService(store, cfg.JWTSecret, cfg.ClientOrigin, googleOAuthConfig)
	authHandler := auth.NewHandler(authService)

	// --- Party Module ---
	websiteService := party.NewWebsiteService(store, cfg.WebsiteID)
	partyService := party.NewService(store, websiteService, caps, mailer)
	partyHandler := party.NewHandler(partyService)

	// 5. --- Initialize Router ---
	api.SetupRoutes(e, authHandler, partyHandler, cfg.JWTSecret)

	// 6. --- Start Server with graceful shutdown logic ---
	go func() {
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server an error occurred:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal("Server forced to shutdown:", err)
	}
	log.Println("Server exiting")
}
