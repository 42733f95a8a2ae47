package utils

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
)

var (
	EnvPath string = "."
)

type Config struct {
	Env                string `mapstructure:"ENV"`
	ServerPort         int    `mapstructure:"SERVER_PORT"`
	SigningKey         string `mapstructure:"SIGNING_KEY"`
	DBUsername         string `mapstructure:"DB_USERNAME"`
	DBPassword         string `mapstructure:"DB_PASSWORD"`
	DBHost             string `mapstructure:"DB_HOST"`
	DBPort             string `mapstructure:"DB_PORT"`
	DBDriver           string `mapstructure:"DB_DRIVER"`
	DBName             string `mapstructure:"DB_NAME"`
	SSLMode            string `mapstructure:"SSLMODE"`
	Papertrail         string `mapstructure:"PAPERTRAIL"`
	PapertrailAppName  string `mapstructure:"PAPERTRAIL_APP_NAME"`
	RedisHost          string `mapstructure:"REDIS_HOST"`
	RedisPort          string `mapstructure:"REDIS_PORT"`
	RedisPassword      string `mapstructure:"REDIS_PASSWORD"`
	CustodialKey       string `mapstructure:"CUSTODIAL_PRIVATE_KEY"`
	PropertyTokenAddr  string `mapstructure:"PROPERTY_TOKEN_ADDRESS"`
	ChainRPCURL        string `mapstructure:"CHAIN_RPC_URL"`
	ChainRPCKey        string `mapstructure:"CHAIN_RPC_KEY"`
	KycBaseUrl         string `mapstructure:"KYC_BASE_URL"`
	KycApiKey          string `mapstructure:"KYC_API_KEY"`
	SweepIntervalSecs  int    `mapstructure:"SWEEP_INTERVAL_SECONDS"`
	RetryMaxAttempts   int    `mapstructure:"RETRY_MAX_ATTEMPTS"`
	RetryBaseDelayMS   int    `mapstructure:"RETRY_BASE_DELAY_MS"`
	BreakerFailures    int    `mapstructure:"BREAKER_FAILURE_THRESHOLD"`
	BreakerTimeoutSecs int    `mapstructure:"BREAKER_RECOVERY_SECONDS"`
	VoucherTTLHours    int    `mapstructure:"VOUCHER_TTL_HOURS"`
	TokenTTLHours      int    `mapstructure:"TOKEN_TTL_HOURS"`
	PlunkBaseUrl       string `mapstructure:"PLUNK_BASE_URL"`
	PlunkApiKey        string `mapstructure:"PLUNK_API_KEY"`
	OpsEmail           string `mapstructure:"OPS_EMAIL"`
}

func LoadConfig(path string) (*Config, error) {
	// Validate that the path is not empty
	if path == "" {
		path = "."
	}

	// Create a new Viper instance to avoid global state
	v := viper.New()

	// Disable environment variable prefix
	v.SetEnvPrefix("")
	v.AutomaticEnv()

	// Configure config file
	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// Log the error, but don't fail entirely
		log.Printf("Warning: Unable to read config file: %v", err)
	}

	// Create config struct
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	applyEngineDefaults(&config)

	return &config, nil
}

func validateConfig(config *Config) error {
	if config.ServerPort == 0 {
		return fmt.Errorf("server port must be specified")
	}

	if config.DBUsername == "" || config.DBPassword == "" {
		return fmt.Errorf("database credentials must be provided")
	}

	if config.CustodialKey == "" {
		return fmt.Errorf("custodial signing key must be provided")
	}

	return nil
}

// applyEngineDefaults fills in disbursement-engine knobs that were not
// set in the environment.
func applyEngineDefaults(config *Config) {
	if config.SweepIntervalSecs == 0 {
		config.SweepIntervalSecs = 60
	}
	if config.RetryMaxAttempts == 0 {
		config.RetryMaxAttempts = 3
	}
	if config.RetryBaseDelayMS == 0 {
		config.RetryBaseDelayMS = 200
	}
	if config.BreakerFailures == 0 {
		config.BreakerFailures = 5
	}
	if config.BreakerTimeoutSecs == 0 {
		config.BreakerTimeoutSecs = 30
	}
	if config.VoucherTTLHours == 0 {
		config.VoucherTTLHours = 24
	}
	if config.TokenTTLHours == 0 {
		config.TokenTTLHours = 72
	}
}

// Optional: Masking sensitive information for logging
func (c *Config) Redact() Config {
	redacted := *c
	redacted.DBPassword = "****"
	redacted.RedisPassword = "****"
	redacted.CustodialKey = "****"
	redacted.KycApiKey = "****"
	redacted.PlunkApiKey = "****"
	return redacted
}

func LoadCustomConfig(path string, val interface{}) error {
	// Validate that the path is not empty
	if path == "" {
		path = "."
	}

	// Create a new Viper instance to avoid global state
	v := viper.New()

	// Allow overriding config via environment variables
	v.SetEnvPrefix("BRICK")
	v.AutomaticEnv()

	// Configure config file
	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// Log the error, but don't fail entirely
		log.Printf("Warning: Unable to read config file: %v", err)
	}

	if err := v.Unmarshal(&val); err != nil {
		return fmt.Errorf("unable to decode config: %w", err)
	}

	return nil
}
