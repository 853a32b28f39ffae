package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port          string `env:"PORT" envDefault:"8091"`
	DatabaseURL   string `env:"DATABASE_URL,required"`
	AutoCreateDB  bool   `env:"AUTO_CREATE_DB"`
	MaintenanceDB string `env:"MAINTENANCE_DB" envDefault:"postgres"`

	OpenAIAPIKey  string `env:"OPENAI_API_KEY,required"`
	OpenAIModel   string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`

	CampaignAPIBaseURL string `env:"CAMPAIGN_API_BASE_URL,required"`
	CampaignAPIKey     string `env:"CAMPAIGN_API_KEY"`

	HistoryLimit       int           `env:"CHAT_HISTORY_LIMIT" envDefault:"20"`
	HTTPTimeout        time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`
	CORSAllowedOrigins string        `env:"CORS_ALLOWED_ORIGINS"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
