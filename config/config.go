package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Debug             bool   `envconfig:"debug"`
	Port              int    `envconfig:"port" default:"8080"`
	Env               string `envconfig:"env"`
	BaseUrl           string `envconfig:"base_url"`
	PostgresHost      string `envconfig:"postgres_host"`
	PostgresUser      string `envconfig:"postgres_user"`
	PostgresDB        string `envconfig:"postgres_db"`
	PostgresPort      int    `envconfig:"postgres_port"`
	PostgresPassword  string `envconfig:"postgres_password"`
	JWTSecret         string `envconfig:"jwt_secret"`
	MailgunApiKey     string `envconfig:"mg_public_api_key"`
	MgDomain          string `envconfig:"mg_domain"`
	MgEmailFrom       string `envconfig:"email_from"`
	// TrustProxyHeaders must only be enabled behind a reverse proxy that
	// sets X-Forwarded-For itself; otherwise clients can spoof the rate
	// limiter key.
	TrustProxyHeaders bool `envconfig:"trust_proxy_headers"`
	MessageRateLimit  int  `envconfig:"message_rate_limit" default:"5"`
	MessageRateWindow int  `envconfig:"message_rate_window_seconds" default:"60"`
}

func Load() (*Config, error) {
	env := os.Getenv("GIN_MODE")
	if env != "release" {
		if err := godotenv.Load("./.env"); err != nil {
			log.Printf("couldn't load env vars: %v", err)
		}
	}

	c := &Config{}
	err := envconfig.Process("messaging", c)
	if err != nil {
		return nil, err
	}
	return c, nil
}
