package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/dealerdash/internal/flagx"
	"github.com/dmitrijs2005/dealerdash/internal/timex"
)

// JsonConfig mirrors Config for unmarshalling. Durations use timex.Duration
// so they may be written as "15s" or as integer nanoseconds.
type JsonConfig struct {
	APIBaseURL           string         `json:"api_base_url"`
	RequestTimeout       timex.Duration `json:"request_timeout"`
	DatabasePath         string         `json:"database_path"`
	StorageBackend       string         `json:"storage_backend"`
	MaxConcurrentUploads int            `json:"max_concurrent_uploads"`
	MaxUploadSize        int64          `json:"max_upload_size"`
	PageSize             int            `json:"page_size"`
	LogBackend           string         `json:"log_backend"`
	LogFormat            string         `json:"log_format"`
	S3                   *JsonS3Config  `json:"s3"`
}

type JsonS3Config struct {
	Region        string `json:"region"`
	Bucket        string `json:"bucket"`
	Endpoint      string `json:"endpoint"`
	AccessKey     string `json:"access_key"`
	SecretKey     string `json:"secret_key"`
	PublicBaseURL string `json:"public_base_url"`
}

// parseJson overlays cfg with the JSON file named by -c/-config. Only keys
// present with a non-zero value override the current settings. Read and
// decode errors panic.
func parseJson(cfg *Config) {
	path := flagx.ConfigPath(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.StorageBackend, jc.StorageBackend)
	if jc.MaxConcurrentUploads > 0 {
		cfg.MaxConcurrentUploads = jc.MaxConcurrentUploads
	}
	if jc.MaxUploadSize > 0 {
		cfg.MaxUploadSize = jc.MaxUploadSize
	}
	if jc.PageSize > 0 {
		cfg.PageSize = jc.PageSize
	}
	setString(&cfg.LogBackend, jc.LogBackend)
	setString(&cfg.LogFormat, jc.LogFormat)

	if s := jc.S3; s != nil {
		setString(&cfg.S3.Region, s.Region)
		setString(&cfg.S3.Bucket, s.Bucket)
		setString(&cfg.S3.Endpoint, s.Endpoint)
		setString(&cfg.S3.AccessKey, s.AccessKey)
		setString(&cfg.S3.SecretKey, s.SecretKey)
		setString(&cfg.S3.PublicBaseURL, s.PublicBaseURL)
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
