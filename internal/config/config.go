package config

import "github.com/caarlos0/env/v11"

// Config is populated from the environment.
type Config struct {
	Addr           string   `env:"ADDR" envDefault:":5000"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
	Debug          bool     `env:"DEBUG" envDefault:"false"`
	HandSize       int      `env:"HAND_SIZE" envDefault:"7"`
	RoundLimit     int      `env:"ROUND_LIMIT" envDefault:"10"`
	PromptDeck     string   `env:"PROMPT_DECK"`
	ResponseDeck   string   `env:"RESPONSE_DECK"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
