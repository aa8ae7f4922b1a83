package router

import (
	"net/http"

	boardapp "yardsale-board/internal/application/board"
	healthsvc "yardsale-board/internal/application/health"
	lesvc "yardsale-board/internal/application/listingevents"
	listsvc "yardsale-board/internal/application/listings"
	paysvc "yardsale-board/internal/application/payments"
	uploadsvc "yardsale-board/internal/application/uploads"
	"yardsale-board/internal/config"
	"yardsale-board/internal/infrastructure/database"
	"yardsale-board/internal/infrastructure/kvstore"
	"yardsale-board/internal/infrastructure/metrics"
	boardhandler "yardsale-board/internal/interfaces/handlers/board"
	healthhandler "yardsale-board/internal/interfaces/handlers/health"
	lehandler "yardsale-board/internal/interfaces/handlers/listingevents"
	listhandler "yardsale-board/internal/interfaces/handlers/listings"
	payhandler "yardsale-board/internal/interfaces/handlers/payments"
	uploadhandler "yardsale-board/internal/interfaces/handlers/uploads"
	"yardsale-board/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// APIPrefixes are the mount points of the JSON API. The second one keeps the legacy
// browser script's function paths working.
var APIPrefixes = []string{"/api", "/.netlify/functions"}

// Deps are the external clients the app is built on. Nil DB disables the ledger; nil
// Signer disables photo uploads.
type Deps struct {
	Rdb      *redis.Client
	DB       *gorm.DB
	Checkout paysvc.Checkout
	Signer   uploadsvc.Signer
	Pings    map[string]string
}

// CreateApp opens Redis, the optional ledger database and object storage from cfg and
// builds the Fiber app.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	rdb, err := kvstore.Open(cfg.RedisURL)
	if err != nil {
		return nil, nil, nil, err
	}
	deps := Deps{
		Rdb: rdb,
		Pings: map[string]string{
			"stripe": "https://api.stripe.com/healthcheck",
		},
	}

	if cfg.DatabaseURL != "" {
		db, err := database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, nil, nil, err
		}
		deps.DB = db
	}

	if cfg.StripeSecretKey == "" {
		log.Warn().Msg("STRIPE_SECRET_KEY is not set; checkout endpoints will fail")
	}
	deps.Checkout = paysvc.NewStripeCheckout(cfg.StripeSecretKey)

	if cfg.S3.Endpoint != "" {
		signer, err := uploadsvc.NewMinioSigner(cfg.S3)
		if err != nil {
			return nil, nil, nil, err
		}
		deps.Signer = signer
	}

	return NewApp(cfg, deps), deps.DB, rdb, nil
}

// NewApp wires handlers and middleware onto already-open clients.
func NewApp(cfg *config.Config, d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())
	app.Use(middleware.Metrics())
	app.Use(middleware.CORS(middleware.CORSConfig{
		SiteURL:       cfg.SiteURL,
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))
	app.Use(middleware.HealthMarker(d.Rdb))

	store := &kvstore.RedisStore{Rdb: d.Rdb}
	listings := &listsvc.Service{Store: store, Location: cfg.Location}
	payments := &paysvc.Service{
		Listings:          listings,
		Checkout:          d.Checkout,
		Verifier:          &paysvc.StripeVerifier{Secret: cfg.StripeWebhookSecret},
		Currency:          cfg.Currency,
		FeaturePriceCents: cfg.FeaturePriceCents,
		SponsorPriceCents: cfg.SponsorPriceCents,
	}
	if payments.Checkout == nil {
		payments.Checkout = paysvc.NewStripeCheckout("")
	}

	var ledger *lesvc.Service
	if d.DB != nil {
		ledger = &lesvc.Service{DB: d.DB}
		listings.Events = ledger
		payments.Ledger = ledger
	}

	var db healthsvc.DBPinger
	if d.DB != nil {
		db = &database.Pinger{DB: d.DB}
	}
	hh := &healthhandler.Handlers{
		Checker:  &healthsvc.Checker{Rdb: d.Rdb, DB: db, Pings: d.Pings},
		AdminKey: cfg.AdminKey,
	}
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)
	app.Get("/health/reset", hh.Reset)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	bh := &boardhandler.Handlers{
		Listings:          listings,
		MapCenter:         boardapp.LatLng{Lat: cfg.MapDefaultLat, Lng: cfg.MapDefaultLng},
		FeaturePriceCents: cfg.FeaturePriceCents,
		SponsorPriceCents: cfg.SponsorPriceCents,
		MapsAPIKey:        cfg.GoogleMapsAPIKey,
		UploadsEnabled:    d.Signer != nil,
		APIBase:           APIPrefixes[0],
	}
	app.Get("/", bh.Page)

	lh := &listhandler.Handlers{Service: listings}
	ph := &payhandler.Handlers{Service: payments, SiteURL: cfg.SiteURL}
	var uh *uploadhandler.Handlers
	if d.Signer != nil {
		uh = &uploadhandler.Handlers{Service: &uploadsvc.Service{Signer: d.Signer}}
	}
	var leh *lehandler.Handlers
	if ledger != nil {
		leh = &lehandler.Handlers{Service: ledger}
	}

	for _, prefix := range APIPrefixes {
		api := app.Group(prefix)
		api.Get("/listings", lh.GetListings)
		api.Post("/create-listing", lh.CreateListing)
		api.Post("/create-checkout-session", ph.CreateCheckoutSession)
		api.Post("/create-subscription", ph.CreateSubscription)
		api.Post("/webhook", ph.Webhook)
		api.Get("/config", bh.Config)
		if uh != nil {
			api.Post("/upload-photo", uh.UploadPhoto)
		}
		if leh != nil {
			admin := api.Group("/admin", middleware.AdminKey(cfg.AdminKey))
			admin.Get("/listings/:id/events", leh.GetListingEvents)
			admin.Get("/payments", leh.ListPayments)
		}
	}

	return app
}

func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
