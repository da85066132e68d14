package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/avelichka/skinform/internal/flagx"
	"github.com/avelichka/skinform/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "5m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config
// struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddr                string         `json:"endpoint_addr"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	OTPCodeTTL                  timex.Duration `json:"otp_code_ttl"`
	OTPMaxAttempts              int            `json:"otp_max_attempts"`
	TwilioAccountSID            string         `json:"twilio_account_sid"`
	TwilioAuthToken             string         `json:"twilio_auth_token"`
	TwilioFromNumber            string         `json:"twilio_from_number"`
	GeminiAPIKey                string         `json:"gemini_api_key"`
	GeminiModel                 string         `json:"gemini_model"`
	RoutineDays                 int            `json:"routine_days"`
	S3RootUser                  string         `json:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password"`
	S3Bucket                    string         `json:"s3_bucket"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c/-config command-line
// flags; when neither is set, no JSON file is loaded. Read or parse failures
// panic: a requested config file that cannot be used is a startup error.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.EndpointAddr = c.EndpointAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityDuration.Duration)
	config.OTPCodeTTL = time.Duration(c.OTPCodeTTL.Duration)
	config.OTPMaxAttempts = c.OTPMaxAttempts
	config.TwilioAccountSID = c.TwilioAccountSID
	config.TwilioAuthToken = c.TwilioAuthToken
	config.TwilioFromNumber = c.TwilioFromNumber
	config.GeminiAPIKey = c.GeminiAPIKey
	config.GeminiModel = c.GeminiModel
	config.RoutineDays = c.RoutineDays
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
}
