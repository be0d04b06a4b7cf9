package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/examkeeper/internal/flagx"
	"github.com/dmitrijs2005/examkeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Pointer fields
// distinguish "absent" from "zero" so that a partial file only overrides the
// keys it names. Durations accept "90m" or integer nanoseconds.
type JsonConfig struct {
	EndpointAddrGRPC         *string         `json:"endpoint_addr_grpc"`
	EndpointAddrHTTP         *string         `json:"endpoint_addr_http"`
	DatabaseDriver           *string         `json:"database_driver"`
	DatabaseDSN              *string         `json:"database_dsn"`
	SecretKey                *string         `json:"secret_key"`
	LogLevel                 *string         `json:"log_level"`
	TokenValidityDuration    *timex.Duration `json:"token_validity_duration"`
	VoucherValidityDuration  *timex.Duration `json:"voucher_validity_duration"`
	WorkbookValidityDuration *timex.Duration `json:"workbook_validity_duration"`
	PredefinedTokenEnabled   *bool           `json:"predefined_token_enabled"`
	PredefinedTokenPayload   *string         `json:"predefined_token_payload"`
	PredefinedTokenAccountID *string         `json:"predefined_token_account_id"`
	CredentialsBackend       *string         `json:"credentials_backend"`
	RedisAddr                *string         `json:"redis_addr"`
	RedisPassword            *string         `json:"redis_password"`
	CatalogFile              *string         `json:"catalog_file"`
	S3RootUser               *string         `json:"s3_root_user"`
	S3RootPassword           *string         `json:"s3_root_password"`
	S3Bucket                 *string         `json:"s3_bucket"`
	S3Region                 *string         `json:"s3_region"`
	S3BaseEndpoint           *string         `json:"s3_base_endpoint"`
	ImageURLValidityDuration *timex.Duration `json:"image_url_validity_duration"`
}

// parseJson overlays values from the file named by -c/-config. Without the
// flag nothing is loaded. An unreadable or malformed file panics, as there
// is no sensible way to start with a half-applied configuration.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFileFlag()
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

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDriver, c.DatabaseDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.LogLevel, c.LogLevel)
	if c.TokenValidityDuration != nil {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.VoucherValidityDuration != nil {
		config.VoucherValidityDuration = c.VoucherValidityDuration.Duration
	}
	if c.WorkbookValidityDuration != nil {
		config.WorkbookValidityDuration = c.WorkbookValidityDuration.Duration
	}
	if c.PredefinedTokenEnabled != nil {
		config.PredefinedTokenEnabled = *c.PredefinedTokenEnabled
	}
	setString(&config.PredefinedTokenPayload, c.PredefinedTokenPayload)
	setString(&config.PredefinedTokenAccountID, c.PredefinedTokenAccountID)
	setString(&config.CredentialsBackend, c.CredentialsBackend)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.RedisPassword, c.RedisPassword)
	setString(&config.CatalogFile, c.CatalogFile)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	if c.ImageURLValidityDuration != nil {
		config.ImageURLValidityDuration = c.ImageURLValidityDuration.Duration
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
