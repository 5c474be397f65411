package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// AWS configuration
	AWSRegion      string
	DynamoDBTable  string
	AliasIndexName string // GSI over alias rows, queried with begins_with
	EventBusName   string

	// Alias rows carry a constant partition value so the GSI can be range
	// scanned by alias prefix.
	AliasPartitionValue string

	// Lookup tuning
	MinPrefixLength  int
	MaxSearchResults int
	MaxImages        int

	// Enrichment providers
	GBIFBaseURL    string
	BedrockModelID string
	PexelsAPIKey   string
	PexelsBaseURL  string
	UnsplashAPIKey string
	UnsplashBaseURL string

	// Authentication
	APIKey string

	// Logging
	LogLevel string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),

		AWSRegion:      getEnv("AWS_REGION", "ap-southeast-2"),
		DynamoDBTable:  getEnv("PLANT_TABLE", "PlantTaxon"),
		AliasIndexName: getEnv("ALIAS_INDEX", "AliasIndex"),
		EventBusName:   getEnv("EVENT_BUS_NAME", ""),

		AliasPartitionValue: getEnv("ALIAS_GSI_PARTITION_VALUE", "ALIAS"),

		MinPrefixLength:  getEnvInt("MIN_PREFIX_LENGTH", 3),
		MaxSearchResults: getEnvInt("MAX_SEARCH_RESULTS", 50),
		MaxImages:        getEnvInt("MAX_IMAGES", 5),

		GBIFBaseURL:     getEnv("GBIF_BASE_URL", "https://api.gbif.org/v1"),
		BedrockModelID:  getEnv("BEDROCK_MODEL_ID", "amazon.nova-micro-v1:0"),
		PexelsAPIKey:    getEnv("PEXELS_API_KEY", ""),
		PexelsBaseURL:   getEnv("PEXELS_BASE_URL", "https://api.pexels.com/v1"),
		UnsplashAPIKey:  getEnv("UNSPLASH_ACCESS_KEY", ""),
		UnsplashBaseURL: getEnv("UNSPLASH_BASE_URL", "https://api.unsplash.com"),

		APIKey: getEnv("API_KEY", ""),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.DynamoDBTable == "" {
		return fmt.Errorf("PLANT_TABLE is required")
	}
	if c.MinPrefixLength < 1 {
		return fmt.Errorf("MIN_PREFIX_LENGTH must be positive")
	}
	if c.Environment == "production" && c.APIKey == "" {
		return fmt.Errorf("API_KEY is required in production")
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
