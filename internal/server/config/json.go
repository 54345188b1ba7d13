package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/connectinghands/handshare/internal/flagx"
	"github.com/connectinghands/handshare/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "15m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config
// struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddr      string         `json:"endpoint_addr"`
	PublicBaseURL     string         `json:"public_base_url"`
	DatabaseDSN       string         `json:"database_dsn"`
	SigningSecret     string         `json:"signing_secret"`
	DownloadURLTTL    timex.Duration `json:"download_url_ttl"`
	ShareCodeLength   int            `json:"share_code_length"`
	MaxModelSizeBytes int64          `json:"max_model_size_bytes"`
	StorageBackend    string         `json:"storage_backend"`
	StorageDir        string         `json:"storage_dir"`
	S3RootUser        string         `json:"s3_root_user"`
	S3RootPassword    string         `json:"s3_root_password"`
	S3Bucket          string         `json:"s3_bucket"`
	S3Region          string         `json:"s3_region"`
	S3BaseEndpoint    string         `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The lookup order for the JSON file path is:
//
//	The -c or -config command-line flags.
//	If it is not set, no JSON file is loaded.
//
// If the file cannot be read or contains invalid JSON, the function panics.
// The caller is expected to merge these values with defaults and
// command-line flags as part of the full configuration process.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddr = c.EndpointAddr
	config.PublicBaseURL = c.PublicBaseURL
	config.DatabaseDSN = c.DatabaseDSN
	config.SigningSecret = c.SigningSecret
	config.DownloadURLTTL = time.Duration(c.DownloadURLTTL.Duration)
	config.ShareCodeLength = c.ShareCodeLength
	config.MaxModelSizeBytes = c.MaxModelSizeBytes
	config.StorageBackend = c.StorageBackend
	config.StorageDir = c.StorageDir
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
}
