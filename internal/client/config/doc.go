// Package config loads runtime configuration for the dealerdash CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the dealership API
//	-t int      request timeout (seconds)
//	-d string   local SQLite store path
//	-s string   image storage backend (relay|s3)
//	-b string   S3 bucket
//	-u int      max concurrent uploads
//	-p int      listing page size
//	-l string   log backend (slog|zap)
//
// # JSON schema
//
//	{
//	  "api_base_url": "https://api.example.com",
//	  "request_timeout": "15s",
//	  "database_path": "/var/lib/dealerdash/dash.db",
//	  "storage_backend": "s3",
//	  "max_concurrent_uploads": 4,
//	  "page_size": 9,
//	  "log_backend": "zap",
//	  "log_format": "json",
//	  "s3": {
//	    "region": "eu-central-1",
//	    "bucket": "dealer-media",
//	    "endpoint": "https://s3.eu-central-1.amazonaws.com",
//	    "access_key": "...",
//	    "secret_key": "...",
//	    "public_base_url": "https://media.example.com"
//	  }
//	}
package config
