// SPDX-License-Identifier: GPL-3.0-or-later

package loginsight

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"
)

// Default connection parameters for a Log Insight appliance.
const (
	// DefaultPort is the default API port.
	DefaultPort = 443

	// DefaultIngestionPort is the default ingestion API port.
	DefaultIngestionPort = 9543

	// DefaultScheme is the default URL scheme.
	DefaultScheme = "https"
)

// Config holds the connection parameters and common configuration for a
// Log Insight client.
//
// Construct with [NewConfig] or [LoadConfig]; both set sensible defaults
// for every field not provided.
type Config struct {
	// Host is the Log Insight host name (required).
	Host string `toml:"host"`

	// Port is the API port.
	//
	// Set by [NewConfig] to [DefaultPort].
	Port int `toml:"port"`

	// IngestionPort is the ingestion API port.
	//
	// Set by [NewConfig] to [DefaultIngestionPort].
	IngestionPort int `toml:"ingestion_port"`

	// Scheme is the URL scheme ("https" or "http").
	//
	// Set by [NewConfig] to [DefaultScheme].
	Scheme string `toml:"scheme"`

	// User is the user name for the authentication handshake.
	User string `toml:"user"`

	// Password is the password for the authentication handshake.
	Password string `toml:"password"`

	// InsecureSkipVerify disables TLS certificate verification. Log
	// Insight appliances frequently ship with self-signed certificates.
	InsecureSkipVerify bool `toml:"insecure_skip_verify"`

	// ErrClassifier classifies errors for structured logging.
	//
	// Set by [NewConfig] to [DefaultErrClassifier].
	ErrClassifier ErrClassifier `toml:"-"`

	// TimeNow returns the current time. It feeds the x-li-timestamp
	// request header and the span-event timestamps.
	//
	// Set by [NewConfig] to [time.Now].
	TimeNow func() time.Time `toml:"-"`
}

// NewConfig creates a [*Config] with the given connection parameters and
// sensible defaults for everything else.
func NewConfig(host, user, password string) *Config {
	cfg := &Config{Host: host, User: user, Password: password}
	cfg.setDefaults()
	return cfg
}

// envVarPattern matches ${VAR_NAME} placeholders in config files.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// LoadConfig reads a TOML configuration file from the given path.
//
// Placeholders in the format ${VAR_NAME} are expanded from the environment
// before parsing, so credentials need not be stored in the file itself.
// Missing fields receive the same defaults as [NewConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loginsight: reading config file: %w", err)
	}
	expanded := envVarPattern.ReplaceAllStringFunc(string(data), func(match string) string {
		name := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(name)
	})
	cfg := &Config{}
	if err := toml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("loginsight: parsing config file: %w", err)
	}
	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults fills every zero-valued optional field.
func (c *Config) setDefaults() {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.IngestionPort == 0 {
		c.IngestionPort = DefaultIngestionPort
	}
	if c.Scheme == "" {
		c.Scheme = DefaultScheme
	}
	if c.ErrClassifier == nil {
		c.ErrClassifier = DefaultErrClassifier
	}
	if c.TimeNow == nil {
		c.TimeNow = time.Now
	}
}

// validate checks that the required fields are present.
func (c *Config) validate() error {
	if c.Host == "" {
		return errors.New("loginsight: config: host is required")
	}
	if c.Scheme != "https" && c.Scheme != "http" {
		return fmt.Errorf("loginsight: config: unsupported scheme %q", c.Scheme)
	}
	return nil
}
