package config

import (
	"time"

	"github.com/dmitrijs2005/dealerdash/internal/common"
)

// Storage backends for uploaded images.
const (
	StorageRelay = "relay"
	StorageS3    = "s3"
)

// S3Config configures the S3-compatible bucket images are uploaded to.
// PublicBaseURL is prepended to object keys to form the URL stored in
// records; it defaults to the endpoint/bucket path when empty.
type S3Config struct {
	Region        string
	Bucket        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

// Config holds runtime settings for the dealerdash CLI.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	DatabasePath   string

	StorageBackend       string
	S3                   S3Config
	MaxConcurrentUploads int
	// MaxUploadSize is the largest file accepted for upload, in bytes.
	MaxUploadSize int64

	PageSize int

	LogBackend string
	LogFormat  string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:3000"
	c.RequestTimeout = 15 * time.Second
	c.DatabasePath = "dealerdash.db"
	c.StorageBackend = StorageRelay
	c.S3 = S3Config{Region: "us-east-1"}
	c.MaxConcurrentUploads = 4
	c.MaxUploadSize = 10 << 20
	c.PageSize = common.DefaultPageSize
	c.LogBackend = "slog"
	c.LogFormat = "text"
}

// LoadConfig applies defaults, then the optional JSON file, then flags.
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
