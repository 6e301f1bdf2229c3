package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/i2clabs/fileserver/internal/flagx"
	"github.com/i2clabs/fileserver/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. Duration fields accept both string values ("24h") and integer
// nanoseconds via timex.Duration. After unmarshalling, set fields are copied
// into the runtime Config.
type JsonConfig struct {
	EndpointAddr        *string         `json:"endpoint_addr"`
	DatabaseDSN         *string         `json:"database_dsn"`
	SecretKey           *string         `json:"secret_key"`
	AccessTokenValidity *timex.Duration `json:"access_token_validity"`
	MaxLoginAttempts    *int            `json:"max_login_attempts"`
	LockoutDuration     *timex.Duration `json:"lockout_duration"`
	StorageType         *string         `json:"storage_type"`
	StoragePath         *string         `json:"storage_path"`
	S3AccessKey         *string         `json:"s3_access_key"`
	S3SecretKey         *string         `json:"s3_secret_key"`
	S3Bucket            *string         `json:"s3_bucket"`
	S3Region            *string         `json:"s3_region"`
	S3BaseEndpoint      *string         `json:"s3_base_endpoint"`
	EnableCORS          *bool           `json:"enable_cors"`
	LogLevel            *string         `json:"log_level"`
}

// parseJson loads configuration values from the JSON file given via the
// -c/-config flags into the provided Config. Absent file path means nothing
// is loaded; unset JSON fields keep their current values. Unreadable or
// invalid files panic, matching flag-parse failure behaviour.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != nil {
		config.EndpointAddr = *c.EndpointAddr
	}
	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	if c.SecretKey != nil {
		config.SecretKey = *c.SecretKey
	}
	if c.AccessTokenValidity != nil {
		config.AccessTokenValidity = time.Duration(c.AccessTokenValidity.Duration)
	}
	if c.MaxLoginAttempts != nil {
		config.MaxLoginAttempts = *c.MaxLoginAttempts
	}
	if c.LockoutDuration != nil {
		config.LockoutDuration = time.Duration(c.LockoutDuration.Duration)
	}
	if c.StorageType != nil {
		config.StorageType = *c.StorageType
	}
	if c.StoragePath != nil {
		config.StoragePath = *c.StoragePath
	}
	if c.S3AccessKey != nil {
		config.S3AccessKey = *c.S3AccessKey
	}
	if c.S3SecretKey != nil {
		config.S3SecretKey = *c.S3SecretKey
	}
	if c.S3Bucket != nil {
		config.S3Bucket = *c.S3Bucket
	}
	if c.S3Region != nil {
		config.S3Region = *c.S3Region
	}
	if c.S3BaseEndpoint != nil {
		config.S3BaseEndpoint = *c.S3BaseEndpoint
	}
	if c.EnableCORS != nil {
		config.EnableCORS = *c.EnableCORS
	}
	if c.LogLevel != nil {
		config.LogLevel = *c.LogLevel
	}
}
