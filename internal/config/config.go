package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration for a generation run
// Supports environment variables with defaults matching the production deployment
//
// Environment Variables:
// OpenAI Configuration:
// - OPENAI_API_KEY: API key for image generation (required)
// - OPENAI_API_URL: API endpoint URL (default: https://api.openai.com/v1)
// - OPENAI_IMAGE_MODEL: Image model name (default: dall-e-3)
// - OPENAI_TIMEOUT: Request timeout in seconds (default: 120)
//
// Storage Configuration:
// - FIREBASE_STORAGE_BUCKET: Firebase Storage bucket name
// - SERVICE_ACCOUNT_PATH: Firebase service account key file (default: serviceAccountKey.json)
//
// Dataset Configuration:
// - STORIES_JSON_PATH: stories dataset file (default: ArabicStories/OfflineBundle/stories.json)
// - IMAGES_DIR: local directory for generated images (default: generated_images)
//
// Batch Configuration:
// - CHECKPOINT_EVERY: dataset save cadence in successes (default: 5)
// - STORY_INTERVAL: pause between stories (default: 500ms)
// - GENERATE_INTERVAL: minimum spacing between generation calls (default: 1s)
// - IMAGE_UNIT_PRICE: USD per generated image, for the cost estimate (default: 0.04)

type Config struct {
	// OpenAI Configuration
	OpenAI OpenAIConfig `json:"openai"`

	// Storage Configuration
	Storage StorageConfig `json:"storage"`

	// Dataset Configuration
	Dataset DatasetConfig `json:"dataset"`

	// Batch Configuration
	Batch BatchConfig `json:"batch"`
}

// OpenAIConfig holds the configuration for the image generation client
type OpenAIConfig struct {
	APIKey  string `json:"api_key"`
	APIURL  string `json:"api_url"`
	Model   string `json:"model"`
	Timeout int    `json:"timeout"`
}

// StorageConfig holds the configuration for the Firebase Storage uploader
type StorageConfig struct {
	Bucket             string `json:"bucket"`
	ServiceAccountPath string `json:"service_account_path"`
}

// DatasetConfig holds the locations of the stories dataset and the local image cache
type DatasetConfig struct {
	StoriesPath string `json:"stories_path"`
	ImagesDir   string `json:"images_dir"`
}

// BatchConfig holds the orchestration knobs for a batch run
type BatchConfig struct {
	CheckpointEvery  int           `json:"checkpoint_every"`
	StoryInterval    time.Duration `json:"story_interval"`
	GenerateInterval time.Duration `json:"generate_interval"`
	UnitPrice        float64       `json:"unit_price"`
}

// Option is a function type for configuring Config
type Option func(*Config)

// NewFromEnv creates a new Config instance with values from environment variables and options
func NewFromEnv(opts ...Option) (*Config, error) {
	config := &Config{
		OpenAI: OpenAIConfig{
			APIKey:  getEnvString("OPENAI_API_KEY", ""),
			APIURL:  getEnvString("OPENAI_API_URL", "https://api.openai.com/v1"),
			Model:   getEnvString("OPENAI_IMAGE_MODEL", "dall-e-3"),
			Timeout: getEnvInt("OPENAI_TIMEOUT", 120),
		},
		Storage: StorageConfig{
			Bucket:             getEnvString("FIREBASE_STORAGE_BUCKET", "arabicstories-82611.firebasestorage.app"),
			ServiceAccountPath: getEnvString("SERVICE_ACCOUNT_PATH", "serviceAccountKey.json"),
		},
		Dataset: DatasetConfig{
			StoriesPath: getEnvString("STORIES_JSON_PATH", "ArabicStories/OfflineBundle/stories.json"),
			ImagesDir:   getEnvString("IMAGES_DIR", "generated_images"),
		},
		Batch: BatchConfig{
			CheckpointEvery:  getEnvInt("CHECKPOINT_EVERY", 5),
			StoryInterval:    getEnvDuration("STORY_INTERVAL", 500*time.Millisecond),
			GenerateInterval: getEnvDuration("GENERATE_INTERVAL", time.Second),
			UnitPrice:        getEnvFloat("IMAGE_UNIT_PRICE", 0.04),
		},
	}

	// Apply custom options
	for _, opt := range opts {
		opt(config)
	}

	// Validate required configuration
	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// validate checks if all required configuration is properly set
func (c *Config) validate() error {
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.Storage.Bucket == "" {
		return fmt.Errorf("FIREBASE_STORAGE_BUCKET cannot be empty")
	}
	if c.Batch.CheckpointEvery <= 0 {
		return fmt.Errorf("CHECKPOINT_EVERY must be positive")
	}
	return nil
}

// getEnvString gets a string value from environment variables with default
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer value from environment variables with default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat gets a float value from environment variables with default
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvDuration gets a duration value from environment variables with default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
