package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophdocs/internal/timex"
)

// JSONConfig is a DTO used exclusively for JSON unmarshalling. Pointer and
// zero-value fields absent from the file leave the defaults untouched.
type JSONConfig struct {
	ServerURL      string          `json:"server_url"`
	APIKey         string          `json:"api_key"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	RetryAttempts  *uint64         `json:"retry_attempts"`
	PerPage        *int            `json:"per_page"`
	BaselineDSN    string          `json:"baseline_dsn"`
	S3             *JSONS3Config   `json:"s3"`
}

type JSONS3Config struct {
	Region       string `json:"region"`
	BaseEndpoint string `json:"base_endpoint"`
	AccessKey    string `json:"access_key"`
	SecretKey    string `json:"secret_key"`
}

func parseJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var jc JSONConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return err
	}

	setString(&cfg.ServerURL, jc.ServerURL)
	setString(&cfg.APIKey, jc.APIKey)
	setString(&cfg.BaselineDSN, jc.BaselineDSN)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.RetryAttempts != nil {
		cfg.RetryAttempts = *jc.RetryAttempts
	}
	if jc.PerPage != nil {
		cfg.PerPage = *jc.PerPage
	}
	if s3 := jc.S3; s3 != nil {
		setString(&cfg.S3Region, s3.Region)
		setString(&cfg.S3BaseEndpoint, s3.BaseEndpoint)
		setString(&cfg.S3AccessKey, s3.AccessKey)
		setString(&cfg.S3SecretKey, s3.SecretKey)
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
