package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

const (
	FlagServer     = "server"
	FlagAPIKey     = "api-key"
	FlagTimeout    = "timeout"
	FlagRetries    = "retries"
	FlagPerPage    = "per-page"
	FlagBaseline   = "baseline"
	FlagS3Region   = "s3-region"
	FlagS3Endpoint = "s3-endpoint"
)

// RegisterFlags declares the configuration flags on fs. Defaults shown in
// help come from LoadDefaults; S3 credentials are only read from the file.
func RegisterFlags(fs *pflag.FlagSet) {
	var d Config
	d.LoadDefaults()

	fs.StringP(FlagServer, "a", d.ServerURL, "docstore server URL")
	fs.StringP(FlagAPIKey, "k", "", "API key")
	fs.Duration(FlagTimeout, d.RequestTimeout, "per-request timeout")
	fs.Uint64(FlagRetries, d.RetryAttempts, "retries of idempotent requests")
	fs.Int(FlagPerPage, d.PerPage, "documents per page request")
	fs.String(FlagBaseline, d.BaselineDSN, "SQLite DSN of the baseline cache (empty keeps it in memory)")
	fs.String(FlagS3Region, d.S3Region, "S3 region for s3:// downloads")
	fs.String(FlagS3Endpoint, d.S3BaseEndpoint, "S3-compatible endpoint for s3:// downloads")
}

func applyFlags(cfg *Config, fs *pflag.FlagSet) error {
	var err error
	str := func(name string, dst *string) {
		if err == nil && fs.Changed(name) {
			*dst, err = fs.GetString(name)
		}
	}

	str(FlagServer, &cfg.ServerURL)
	str(FlagAPIKey, &cfg.APIKey)
	str(FlagBaseline, &cfg.BaselineDSN)
	str(FlagS3Region, &cfg.S3Region)
	str(FlagS3Endpoint, &cfg.S3BaseEndpoint)
	if err == nil && fs.Changed(FlagTimeout) {
		cfg.RequestTimeout, err = fs.GetDuration(FlagTimeout)
	}
	if err == nil && fs.Changed(FlagRetries) {
		cfg.RetryAttempts, err = fs.GetUint64(FlagRetries)
	}
	if err == nil && fs.Changed(FlagPerPage) {
		cfg.PerPage, err = fs.GetInt(FlagPerPage)
	}
	if err != nil {
		return fmt.Errorf("read flags: %w", err)
	}
	return nil
}
