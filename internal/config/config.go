package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Port                     string        `mapstructure:"PORT"`
	DatabasePath             string        `mapstructure:"DATABASE_PATH"`
	JWTSecret                string        `mapstructure:"JWT_SECRET"`
	FrontendURL              string        `mapstructure:"FRONTEND_URL"`
	OAuthClientID            string        `mapstructure:"OAUTH_CLIENT_ID"`
	OAuthClientSecret        string        `mapstructure:"OAUTH_CLIENT_SECRET"`
	OAuthRedirectURL         string        `mapstructure:"OAUTH_REDIRECT_URL"`
	OAuthAuthURL             string        `mapstructure:"OAUTH_AUTH_URL"`
	OAuthTokenURL            string        `mapstructure:"OAUTH_TOKEN_URL"`
	OAuthUserInfoURL         string        `mapstructure:"OAUTH_USERINFO_URL"`
	OAuthAllowedDomain       string        `mapstructure:"OAUTH_ALLOWED_DOMAIN"`
	DiscordBotToken          string        `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordSecurityChannelID string        `mapstructure:"DISCORD_SECURITY_CHANNEL_ID"`
	EnableCORS               bool          `mapstructure:"ENABLE_CORS"`
	CORSAllowedOrigins       []string      `mapstructure:"CORS_ALLOWED_ORIGINS"`
	LogLevel                 string        `mapstructure:"LOG_LEVEL"`
	LogFormat                string        `mapstructure:"LOG_FORMAT"`
	VisitTimezone            string        `mapstructure:"VISIT_TIMEZONE"`
	DraftTTL                 time.Duration `mapstructure:"DRAFT_TTL"`
}

func LoadConfig() *Config {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DATABASE_PATH", "visitors.db")
	viper.SetDefault("FRONTEND_URL", "http://127.0.0.1:4000/visits/new")
	viper.SetDefault("OAUTH_REDIRECT_URL", "http://127.0.0.1:8080/auth/callback")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", []string{"http://127.0.0.1:4000"})
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("VISIT_TIMEZONE", "Asia/Colombo")
	viper.SetDefault("DRAFT_TTL", "2h")

	viper.BindEnv("JWT_SECRET")
	viper.BindEnv("OAUTH_CLIENT_ID")
	viper.BindEnv("OAUTH_CLIENT_SECRET")
	viper.BindEnv("OAUTH_AUTH_URL")
	viper.BindEnv("OAUTH_TOKEN_URL")
	viper.BindEnv("OAUTH_USERINFO_URL")
	viper.BindEnv("OAUTH_ALLOWED_DOMAIN")
	viper.BindEnv("DISCORD_BOT_TOKEN")
	viper.BindEnv("DISCORD_SECURITY_CHANNEL_ID")
	viper.BindEnv("ENABLE_CORS")

	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		logrus.WithError(err).Fatal("Unable to decode config")
	}

	return &config
}

// Location resolves VisitTimezone. An unknown zone yields UTC together with
// the lookup error.
func (c *Config) Location() (*time.Location, error) {
	if c.VisitTimezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.VisitTimezone)
	if err != nil {
		return time.UTC, fmt.Errorf("unknown VISIT_TIMEZONE %q: %w", c.VisitTimezone, err)
	}
	return loc, nil
}
