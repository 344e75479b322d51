package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string
	Mongo       MongoConfig
	Shopify     ShopifyConfig
	PartsAPI    PartsAPIConfig
	AWS         AWSConfig
	Cron        CronConfig
}

type MongoConfig struct {
	URI      string
	Database string
}

type ShopifyConfig struct {
	ShopDomain  string
	AccessToken string
	APIVersion  string
}

// PartsAPIConfig is used to call the rrr.lt parts catalog and its auxiliary
// reference endpoints. The credentials travel as form fields on every call.
type PartsAPIConfig struct {
	Endpoint  string // e.g. https://api.rrr.lt/v2/get/parts
	BaseURL   string // e.g. https://api.rrr.lt; reference lookups live under /get
	Username  string
	Password  string
	UserToken string
	PageSize  int
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
}

// CronConfig drives the two scheduled jobs: the full reconciliation run and
// the media bucket purge. Enabled gates both.
type CronConfig struct {
	Enabled         bool
	SyncExpression  string
	PurgeExpression string
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "3000")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MONGO_DATABASE", "auto-part")
	viper.SetDefault("PARTS_API_ENDPOINT", "https://api.rrr.lt/v2/get/parts")
	viper.SetDefault("PARTS_API_BASE_URL", "https://api.rrr.lt")
	viper.SetDefault("PARTS_API_PAGE_SIZE", 100)
	viper.SetDefault("CRON_ENABLED", true)
	viper.SetDefault("CRON_EXPRESSION", "0 2 * * *")
	viper.SetDefault("MEDIA_PURGE_CRON_EXPRESSION", "0 4 * * 0")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "3000"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		LogLevel:    getEnvOrViper("LOG_LEVEL", "info"),
		Mongo: MongoConfig{
			URI:      strings.TrimSpace(getEnvOrViper("MONGO_URI", "")),
			Database: getEnvOrViper("MONGO_DATABASE", "auto-part"),
		},
		Shopify: ShopifyConfig{
			ShopDomain:  strings.TrimSpace(getEnvOrViper("SHOPIFY_SHOP_DOMAIN", "")),
			AccessToken: strings.TrimSpace(getEnvOrViper("SHOPIFY_ACCESS_TOKEN", "")),
			APIVersion:  getEnvOrViper("SHOPIFY_API_VERSION", "2025-01"),
		},
		PartsAPI: PartsAPIConfig{
			Endpoint:  getEnvOrViper("PARTS_API_ENDPOINT", "https://api.rrr.lt/v2/get/parts"),
			BaseURL:   strings.TrimSuffix(getEnvOrViper("PARTS_API_BASE_URL", "https://api.rrr.lt"), "/"),
			Username:  strings.TrimSpace(getEnvOrViper("PARTS_API_USER_NAME", "")),
			Password:  strings.TrimSpace(getEnvOrViper("PARTS_API_PASSWORD", "")),
			UserToken: strings.TrimSpace(getEnvOrViper("PARTS_API_USER_TOKEN", "")),
			PageSize:  viper.GetInt("PARTS_API_PAGE_SIZE"),
		},
		AWS: AWSConfig{
			Region:          getEnvOrViper("AWS_REGION", "eu-central-1"),
			AccessKeyID:     strings.TrimSpace(getEnvOrViper("AWS_ACCESS_KEY_ID", "")),
			SecretAccessKey: strings.TrimSpace(getEnvOrViper("AWS_SECRET_ACCESS_KEY", "")),
			Bucket:          strings.TrimSpace(getEnvOrViper("AWS_S3_BUCKET_NAME", "")),
		},
		Cron: CronConfig{
			Enabled:         viper.GetBool("CRON_ENABLED"),
			SyncExpression:  getEnvOrViper("CRON_EXPRESSION", "0 2 * * *"),
			PurgeExpression: getEnvOrViper("MEDIA_PURGE_CRON_EXPRESSION", "0 4 * * 0"),
		},
	}

	// Validate required fields
	if cfg.Mongo.URI == "" {
		return nil, fmt.Errorf("MONGO_URI is required")
	}
	if cfg.Shopify.ShopDomain == "" {
		return nil, fmt.Errorf("SHOPIFY_SHOP_DOMAIN is required")
	}
	if cfg.Shopify.AccessToken == "" {
		return nil, fmt.Errorf("SHOPIFY_ACCESS_TOKEN is required")
	}
	if cfg.PartsAPI.Username == "" || cfg.PartsAPI.Password == "" || cfg.PartsAPI.UserToken == "" {
		return nil, fmt.Errorf("PARTS_API_USER_NAME, PARTS_API_PASSWORD and PARTS_API_USER_TOKEN are required")
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}
