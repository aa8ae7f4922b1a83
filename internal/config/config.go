package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	RedisURL            string
	DatabaseURL         string // optional; enables the payment ledger
	StripeSecretKey     string
	StripeWebhookSecret string
	SiteURL             string // fallback origin for checkout redirect URLs
	Currency            string
	FeaturePriceCents   int64
	SponsorPriceCents   int64
	MapDefaultLat       float64
	MapDefaultLng       float64
	GoogleMapsAPIKey    string
	AdminKey            string
	Location            *time.Location // listing dates are compared at midnight in this zone
	FrontendURLEndsWith string
	DevPassword         string
	S3                  S3Config
}

// S3Config configures photo uploads. Uploads are disabled when Endpoint is empty.
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
	PublicURL string
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	viper.SetDefault("CURRENCY", "usd")
	viper.SetDefault("FEATURE_PRICE_CENTS", 700)
	viper.SetDefault("SPONSOR_PRICE_CENTS", 2900)
	viper.SetDefault("MAP_DEFAULT_LAT", 42.96)
	viper.SetDefault("MAP_DEFAULT_LNG", -85.67)
	viper.SetDefault("S3_BUCKET", "listing-photos")
	viper.SetDefault("S3_REGION", "us-east-1")

	loc := time.Local
	if name := strings.TrimSpace(viper.GetString("TZ_NAME")); name != "" {
		l, err := time.LoadLocation(name)
		if err != nil {
			return nil, err
		}
		loc = l
	}

	port := viper.GetString("PORT")
	siteURL := strings.TrimRight(viper.GetString("SITE_URL"), "/")
	if siteURL == "" {
		siteURL = "http://localhost:" + port
	}

	return &Config{
		Env:                 viper.GetString("APP_ENV"),
		Port:                port,
		RedisURL:            viper.GetString("REDIS_URL"),
		DatabaseURL:         viper.GetString("DATABASE_URL"),
		StripeSecretKey:     viper.GetString("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: viper.GetString("STRIPE_WEBHOOK_SECRET"),
		SiteURL:             siteURL,
		Currency:            strings.ToLower(viper.GetString("CURRENCY")),
		FeaturePriceCents:   viper.GetInt64("FEATURE_PRICE_CENTS"),
		SponsorPriceCents:   viper.GetInt64("SPONSOR_PRICE_CENTS"),
		MapDefaultLat:       viper.GetFloat64("MAP_DEFAULT_LAT"),
		MapDefaultLng:       viper.GetFloat64("MAP_DEFAULT_LNG"),
		GoogleMapsAPIKey:    viper.GetString("GOOGLE_MAPS_API_KEY"),
		AdminKey:            viper.GetString("ADMIN_KEY"),
		Location:            loc,
		FrontendURLEndsWith: viper.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         viper.GetString("DEV_PASSWORD"),
		S3: S3Config{
			Endpoint:  viper.GetString("S3_ENDPOINT"),
			AccessKey: viper.GetString("S3_ACCESS_KEY"),
			SecretKey: viper.GetString("S3_SECRET_KEY"),
			Bucket:    viper.GetString("S3_BUCKET"),
			Region:    viper.GetString("S3_REGION"),
			UseSSL:    strings.EqualFold(viper.GetString("S3_USE_SSL"), "true"),
			PublicURL: viper.GetString("S3_PUBLIC_URL"),
		},
	}, nil
}
