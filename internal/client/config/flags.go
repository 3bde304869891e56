package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/dealerdash/internal/flagx"
)

// parseFlags overlays cfg with command-line flags. Unknown flags are filtered
// out first so -c/-config (handled by parseJson) does not trip the parser.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-d", "-s", "-b", "-u", "-p", "-l", "-m"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the dealership API")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the local SQLite store")
	fs.StringVar(&cfg.StorageBackend, "s", cfg.StorageBackend, "image storage backend: relay or s3")
	fs.StringVar(&cfg.S3.Bucket, "b", cfg.S3.Bucket, "S3 bucket for uploaded images")
	fs.IntVar(&cfg.MaxConcurrentUploads, "u", cfg.MaxConcurrentUploads, "max concurrent uploads")
	fs.Int64Var(&cfg.MaxUploadSize, "m", cfg.MaxUploadSize, "max upload size (in bytes)")
	fs.IntVar(&cfg.PageSize, "p", cfg.PageSize, "listing page size")
	fs.StringVar(&cfg.LogBackend, "l", cfg.LogBackend, "log backend: slog or zap")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
