package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/clubbill/clubbill/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Postgres   PostgresConfig   `validate:"required"`
	Billing    BillingConfig    `validate:"required"`
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// BillingConfig carries the billing policy knobs: how far into the future a
// generation run may target, and the two session rate tiers.
type BillingConfig struct {
	// MaxFutureMonths caps how many months ahead of the current month a
	// generation or preview run may target. Enforced at the API boundary.
	MaxFutureMonths int `mapstructure:"max_future_months"`

	// SessionRateStandard is the per-session amount for members without a
	// group enrollment.
	SessionRateStandard decimal.Decimal `mapstructure:"session_rate_standard"`

	// SessionRateReduced is the per-session amount for members who also
	// attend a group workshop.
	SessionRateReduced decimal.Decimal `mapstructure:"session_rate_reduced"`
}

func NewConfig() (*Configuration, error) {
	// Load .env if present; env vars win over the config file
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/clubbill")

	v.SetEnvPrefix("CLUBBILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	}

	var config Configuration
	if err := v.Unmarshal(&config, viper.DecodeHook(decimalDecodeHook())); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", string(types.ModeLocal))
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", string(types.LogLevelInfo))
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("billing.max_future_months", 3)
	v.SetDefault("billing.session_rate_standard", "60")
	v.SetDefault("billing.session_rate_reduced", "45")
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a default configuration for local development and
// tests. This is useful for running scripts or other non-web applications.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Billing: BillingConfig{
			MaxFutureMonths:     3,
			SessionRateStandard: decimal.NewFromInt(60),
			SessionRateReduced:  decimal.NewFromInt(45),
		},
	}
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}
