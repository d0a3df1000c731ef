package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds settings for the alert relay service.
type Config struct {
	// ListenAddress is the address the webhook HTTP server binds to.
	ListenAddress string `yaml:"listen_addr"`
	// RedisAddress is the host:port of the Redis instance backing the token cache.
	RedisAddress string `yaml:"redis_addr"`
	// RedisPassword is the optional Redis password.
	RedisPassword string `yaml:"redis_password"`
	// RedisDB is the Redis database index.
	RedisDB int `yaml:"redis_db"`
	// AuthURL is the identity provider base URL (without the token endpoint path).
	AuthURL string `yaml:"auth_url"`
	// AuthClientID is the OAuth client identifier used for the token exchange.
	AuthClientID string `yaml:"auth_client_id"`
	// AuthClientSecret is the OAuth client secret used for the token exchange.
	AuthClientSecret string `yaml:"auth_client_secret"`
	// AuthUsername is the service account username sent with the exchange.
	AuthUsername string `yaml:"auth_username"`
	// AuthPassword is the service account password sent with the exchange.
	AuthPassword string `yaml:"auth_password"`
	// SMSGatewayURL is the full URL of the SMS gateway endpoint.
	SMSGatewayURL string `yaml:"sms_gateway_url"`
	// SMSInsecureSkipVerify disables TLS certificate verification toward the
	// SMS gateway. Off by default; enable only inside a trusted perimeter.
	SMSInsecureSkipVerify bool `yaml:"sms_insecure_skip_verify"`
	// ContactsFile is the path to the JSON contact directory.
	ContactsFile string `yaml:"contacts_file"`
	// TokenTTL is how long an acquired token is kept in the shared cache.
	TokenTTL time.Duration `yaml:"token_ttl"`
	// Timeout is the duration for outbound network operations.
	Timeout time.Duration `yaml:"timeout"`
	// LogLevel is the minimum logging level (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
}

const (
	// DefaultConfigFilename is the default filename for service settings.
	DefaultConfigFilename = "alert-relay-settings.yaml"

	// DefaultContactsFilename is the default filename for the contact directory.
	DefaultContactsFilename = "contacts.json"

	// DefaultListenAddress is the default webhook server bind address.
	DefaultListenAddress = ":8000"

	// DefaultTokenTTL is the default cache validity window for access tokens.
	// Deliberately shorter than the token's real lifetime to force refresh.
	DefaultTokenTTL = 120 * time.Second

	// DefaultTimeout is the default duration for network operations.
	DefaultTimeout = 5 * time.Second

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600

	// envPrefix prefixes every environment variable recognized by Load.
	envPrefix = "ALERT_RELAY_"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errAuthURLRequired is returned when the identity provider URL is missing.
	errAuthURLRequired = errors.New("identity provider URL must be provided")
	// errAuthClientRequired is returned when client credentials are missing.
	errAuthClientRequired = errors.New("identity provider client credentials must be provided")
	// errGatewayURLRequired is returned when the SMS gateway URL is missing.
	errGatewayURLRequired = errors.New("SMS gateway URL must be provided")
)

// Load reads configuration from the provided path, applies environment
// overrides and validates essential fields.
//
// A missing file is not an error when the default path is used, so the
// service can be configured entirely through the environment. A `.env` file
// in the working directory is honored when present.
func Load(path string) (*Config, error) {
	// Ignore the error: a .env file is optional.
	_ = godotenv.Load()

	if path == "" {
		path = DefaultConfigFilename
	}

	usingDefault := path == DefaultConfigFilename

	var cfg Config

	contents, err := os.ReadFile(filepath.Clean(path))
	switch {
	case err == nil:
		if err = yaml.Unmarshal(contents, &cfg); err != nil {
			return nil, fmt.Errorf("unmarshal settings: %w", err)
		}
	case errors.Is(err, os.ErrNotExist) && usingDefault:
		// Environment-only configuration.
	default:
		return nil, fmt.Errorf("read settings: %w", err)
	}

	applyEnvironment(&cfg)

	if err = Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions: the file carries credentials.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and formatting,
// filling defaults for optional ones.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.AuthURL == "" {
		return errAuthURLRequired
	}

	if _, err := url.ParseRequestURI(cfg.AuthURL); err != nil {
		return fmt.Errorf("invalid identity provider URL: %w", err)
	}

	if cfg.AuthClientID == "" || cfg.AuthClientSecret == "" {
		return errAuthClientRequired
	}

	if cfg.SMSGatewayURL == "" {
		return errGatewayURLRequired
	}

	if _, err := url.ParseRequestURI(cfg.SMSGatewayURL); err != nil {
		return fmt.Errorf("invalid SMS gateway URL: %w", err)
	}

	if cfg.ListenAddress == "" {
		cfg.ListenAddress = DefaultListenAddress
	}

	if cfg.ContactsFile == "" {
		cfg.ContactsFile = DefaultContactsFilename
	}

	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = DefaultTokenTTL
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return nil
}

// applyEnvironment overrides settings from ALERT_RELAY_* environment variables.
func applyEnvironment(cfg *Config) {
	overrideString(&cfg.ListenAddress, "LISTEN_ADDR")
	overrideString(&cfg.RedisAddress, "REDIS_ADDR")
	overrideString(&cfg.RedisPassword, "REDIS_PASSWORD")
	overrideInt(&cfg.RedisDB, "REDIS_DB")
	overrideString(&cfg.AuthURL, "AUTH_URL")
	overrideString(&cfg.AuthClientID, "AUTH_CLIENT_ID")
	overrideString(&cfg.AuthClientSecret, "AUTH_CLIENT_SECRET")
	overrideString(&cfg.AuthUsername, "AUTH_USERNAME")
	overrideString(&cfg.AuthPassword, "AUTH_PASSWORD")
	overrideString(&cfg.SMSGatewayURL, "SMS_GATEWAY_URL")
	overrideBool(&cfg.SMSInsecureSkipVerify, "SMS_INSECURE_SKIP_VERIFY")
	overrideString(&cfg.ContactsFile, "CONTACTS_FILE")
	overrideDuration(&cfg.TokenTTL, "TOKEN_TTL")
	overrideDuration(&cfg.Timeout, "TIMEOUT")
	overrideString(&cfg.LogLevel, "LOG_LEVEL")
}

// overrideString replaces the target when the environment variable is set.
func overrideString(target *string, name string) {
	if v, ok := os.LookupEnv(envPrefix + name); ok {
		*target = v
	}
}

// overrideInt replaces the target when the environment variable holds a valid integer.
func overrideInt(target *int, name string) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok {
		return
	}

	if parsed, err := strconv.Atoi(v); err == nil {
		*target = parsed
	}
}

// overrideBool replaces the target when the environment variable holds a valid boolean.
func overrideBool(target *bool, name string) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok {
		return
	}

	if parsed, err := strconv.ParseBool(v); err == nil {
		*target = parsed
	}
}

// overrideDuration replaces the target when the environment variable holds a valid duration.
func overrideDuration(target *time.Duration, name string) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok {
		return
	}

	if parsed, err := time.ParseDuration(v); err == nil {
		*target = parsed
	}
}
