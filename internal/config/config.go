package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all pricewatch configuration. It is loaded once at startup
// and passed into the components that need it; nothing reads the
// environment at request time.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Fetch     FetchConfig     `mapstructure:"fetch"`
	Messaging MessagingConfig `mapstructure:"messaging"`
	Extract   ExtractConfig   `mapstructure:"extract"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig defines HTTP server settings.
type ServerConfig struct {
	Listen       string `mapstructure:"listen"`
	Port         string `mapstructure:"port"`
	ReadTimeout  string `mapstructure:"read_timeout"`
	WriteTimeout string `mapstructure:"write_timeout"`
	StaticDir    string `mapstructure:"static_dir"`
}

// Addr returns the listen address, letting a bare PORT value override the
// configured listen string.
func (s ServerConfig) Addr() string {
	if s.Port != "" {
		return ":" + strings.TrimPrefix(s.Port, ":")
	}
	return s.Listen
}

// FetchConfig defines page fetch settings.
type FetchConfig struct {
	UserAgent string `mapstructure:"user_agent"`
	Timeout   string `mapstructure:"timeout"`
}

// MessagingConfig defines the WhatsApp delivery settings. All values are
// optional at load time; a missing value fails the dispatch that needs
// it, not the process.
type MessagingConfig struct {
	AccountSID string `mapstructure:"account_sid"`
	AuthToken  string `mapstructure:"auth_token"`
	From       string `mapstructure:"from"`
	DefaultTo  string `mapstructure:"default_to"`
}

// ExtractConfig defines extraction settings.
type ExtractConfig struct {
	RulesPath string `mapstructure:"rules_path"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from an optional YAML file and the
// environment. The messaging and fetch values keep their historical env
// names (SID, AUTH, FROM_WHATSAPP, TO_WHATSAPP, USER_AGENT, PORT);
// everything else is reachable under the PRICEWATCH_ prefix.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("pricewatch")
		v.SetConfigType("yaml")
	}

	// Defaults
	v.SetDefault("server.listen", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	// Delayed notifications hold the response open for up to the full
	// delay window, so responses are not write-bounded by default.
	v.SetDefault("server.write_timeout", "0s")
	v.SetDefault("server.static_dir", "static")
	v.SetDefault("fetch.timeout", "20s")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Environment variables
	v.SetEnvPrefix("PRICEWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Fixed historical names
	_ = v.BindEnv("messaging.account_sid", "SID")
	_ = v.BindEnv("messaging.auth_token", "AUTH")
	_ = v.BindEnv("messaging.from", "FROM_WHATSAPP")
	_ = v.BindEnv("messaging.default_to", "TO_WHATSAPP")
	_ = v.BindEnv("fetch.user_agent", "USER_AGENT")
	_ = v.BindEnv("server.port", "PORT")

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}
