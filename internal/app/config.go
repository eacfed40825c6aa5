package app

import (
	"github.com/coursora/coursora-backend/internal/platform/envutil"
)

type Config struct {
	Port         string
	LogMode      string
	JWTSecretKey string
	Environment  string
	Version      string
}

func LoadConfig() Config {
	return Config{
		Port:         envutil.Str("PORT", "8080"),
		LogMode:      envutil.Str("LOG_MODE", "development"),
		JWTSecretKey: envutil.Str("JWT_SECRET_KEY", "defaultsecret"),
		Environment:  envutil.Str("APP_ENV", "development"),
		Version:      envutil.Str("APP_VERSION", "dev"),
	}
}
