package config

import (
	"log/slog"
	"net"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/angeloszaimis/content-negotiation/internal/codec"
	"github.com/angeloszaimis/content-negotiation/internal/negotiation"
)

const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

const envPrefix = "NEGOTIATOR"

var paramName = regexp.MustCompile(`^[A-Za-z0-9_.\-]+$`)

type ServerConfig struct {
	Address      string `mapstructure:"address"`
	Environment  string `mapstructure:"environment"`
	ReadTimeout  string `mapstructure:"read_timeout"`
	WriteTimeout string `mapstructure:"write_timeout"`
	IdleTimeout  string `mapstructure:"idle_timeout"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	AddSource  bool   `mapstructure:"add_source"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type NegotiationConfig struct {
	Strategy      string `mapstructure:"strategy"`
	FormatParam   string `mapstructure:"format_param"`
	AcceptParam   string `mapstructure:"accept_param"`
	DefaultAccept string `mapstructure:"default_accept"`
	QualityPolicy string `mapstructure:"quality_policy"`
}

type MetricsConfig struct {
	BufferSize int `mapstructure:"buffer_size"`
}

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Negotiation NegotiationConfig `mapstructure:"negotiation"`
	Renderers   []string          `mapstructure:"renderers"`
	Parsers     []string          `mapstructure:"parsers"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
}

// Load reads config.yaml from ./config or the working directory, then
// environment variables prefixed with NEGOTIATOR_, then flags. A --config
// flag names the file explicitly.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.environment", EnvDev)
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("logging.level", LogLevelInfo)
	v.SetDefault("logging.max_size_mb", 100)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age_days", 28)
	v.SetDefault("negotiation.strategy", negotiation.StrategyDefault)
	v.SetDefault("negotiation.format_param", "format")
	v.SetDefault("negotiation.accept_param", "accept")
	v.SetDefault("negotiation.default_accept", "*/*")
	v.SetDefault("negotiation.quality_policy", string(negotiation.QualityReject))
	v.SetDefault("renderers", []string{"json", "html", "xml", "yaml", "toml", "cbor", "protobuf", "text"})
	v.SetDefault("parsers", []string{"json", "form", "yaml", "toml", "cbor", "protobuf"})
	v.SetDefault("metrics.buffer_size", 1000)

	configFile := ""
	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
		configFile, _ = flags.GetString("config")
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Error("failed to read config file", slog.String("error", err.Error()))
			return nil, err
		}
		slog.Warn("config file not found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", slog.String("file", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		slog.Error("failed to unmarshal config", slog.String("error", err.Error()))
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		return nil, err
	}

	return &cfg, nil
}

// Flags returns the command-line flags Load understands.
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("negotiator", pflag.ContinueOnError)
	fs.String("config", "", "path to a YAML configuration file")
	fs.String("address", "", "listen address, host:port")
	fs.String("log-level", "", "log level: debug, info, warn, error")
	fs.String("strategy", "", "negotiation strategy: default, ignore-client")
	return fs
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	bindings := map[string]string{
		"server.address":       "address",
		"logging.level":        "log-level",
		"negotiation.strategy": "strategy",
	}

	for key, name := range bindings {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}

// NegotiatorConfig converts the negotiation section for the negotiator.
func (n NegotiationConfig) NegotiatorConfig() negotiation.Config {
	return negotiation.Config{
		FormatParam:   n.FormatParam,
		AcceptParam:   n.AcceptParam,
		DefaultAccept: n.DefaultAccept,
		QualityPolicy: negotiation.QualityPolicy(n.QualityPolicy),
	}
}

// Timeouts returns the parsed server timeouts. Validate guarantees they parse.
func (s ServerConfig) Timeouts() (read, write, idle time.Duration) {
	read, _ = time.ParseDuration(s.ReadTimeout)
	write, _ = time.ParseDuration(s.WriteTimeout)
	idle, _ = time.ParseDuration(s.IdleTimeout)
	return read, write, idle
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Server,
			validation.By(func(value interface{}) error {
				sc, ok := value.(ServerConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a ServerConfig")
				}
				return validation.ValidateStruct(&sc,
					validation.Field(&sc.Environment,
						validation.Required,
						validation.In(EnvDev, EnvStaging, EnvProd),
					),
					validation.Field(&sc.Address,
						validation.Required,
						validation.By(validateHostPort),
					),
					validation.Field(&sc.ReadTimeout, validation.Required, validation.By(validateDuration)),
					validation.Field(&sc.WriteTimeout, validation.Required, validation.By(validateDuration)),
					validation.Field(&sc.IdleTimeout, validation.Required, validation.By(validateDuration)),
				)
			}),
		),
		validation.Field(&c.Logging,
			validation.By(func(value interface{}) error {
				lc, ok := value.(LoggingConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a LoggingConfig")
				}
				return validation.ValidateStruct(&lc,
					validation.Field(&lc.Level,
						validation.Required,
						validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError),
					),
					validation.Field(&lc.MaxSizeMB, validation.Min(0)),
					validation.Field(&lc.MaxBackups, validation.Min(0)),
					validation.Field(&lc.MaxAgeDays, validation.Min(0)),
				)
			}),
		),
		validation.Field(&c.Negotiation,
			validation.By(func(value interface{}) error {
				nc, ok := value.(NegotiationConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a NegotiationConfig")
				}
				return validation.ValidateStruct(&nc,
					validation.Field(&nc.Strategy,
						validation.Required,
						validation.In(negotiation.StrategyDefault, negotiation.StrategyIgnoreClient),
					),
					validation.Field(&nc.FormatParam, validation.Match(paramName)),
					validation.Field(&nc.AcceptParam, validation.Match(paramName)),
					validation.Field(&nc.DefaultAccept, validation.Required),
					validation.Field(&nc.QualityPolicy,
						validation.Required,
						validation.In(string(negotiation.QualityReject), string(negotiation.QualityClamp)),
					),
				)
			}),
		),
		validation.Field(&c.Renderers,
			validation.Required,
			validation.Each(validation.In(toInterfaces(codec.Formats())...)),
		),
		validation.Field(&c.Parsers,
			validation.Each(validation.In(toInterfaces(codec.Formats())...)),
		),
		validation.Field(&c.Metrics,
			validation.By(func(value interface{}) error {
				mc, ok := value.(MetricsConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a MetricsConfig")
				}
				return validation.ValidateStruct(&mc,
					validation.Field(&mc.BufferSize, validation.Required, validation.Min(1)),
				)
			}),
		),
	)
}

func validateHostPort(value interface{}) error {
	addr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return validation.NewError("validation_invalid_hostport", "must be in host:port format")
	}

	if port == "" {
		return validation.NewError("validation_invalid_port", "port cannot be empty")
	}

	if host != "" {
		if err := is.Host.Validate(host); err != nil {
			return validation.NewError("validation_invalid_host", "invalid host")
		}
	}

	return nil
}

func validateDuration(value interface{}) error {
	durationStr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	if _, err := time.ParseDuration(durationStr); err != nil {
		return validation.NewError("validation_invalid_duration", "must be a valid duration (e.g., 2s, 5m, 1h)")
	}

	return nil
}

func toInterfaces(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
