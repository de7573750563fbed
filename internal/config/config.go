package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config carries API credentials and tunables for every component.
// Values come from environment variables first, then an optional
// canvass.yaml file, then defaults.
type Config struct {
	ApolloAPIKey string
	HunterAPIKey string
	CladoAPIKey  string
	OpenAIAPIKey string

	ApolloBaseURL string
	HunterBaseURL string
	CladoBaseURL  string
	OpenAIBaseURL string

	EnrichPacing time.Duration
	MetricsPort  int
}

const (
	defaultApolloBaseURL = "https://api.apollo.io/v1"
	defaultHunterBaseURL = "https://api.hunter.io/v2"
	defaultCladoBaseURL  = "https://search.clado.ai"
	defaultOpenAIBaseURL = "https://api.openai.com"

	defaultEnrichPacing = 500 * time.Millisecond
)

// Load reads configuration from the environment and, when present, a
// canvass.yaml file. A missing config file is not an error; missing API
// keys are left empty so callers can decide which providers to run.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("canvass")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/canvass")

	v.SetDefault("apollo.base_url", defaultApolloBaseURL)
	v.SetDefault("hunter.base_url", defaultHunterBaseURL)
	v.SetDefault("clado.base_url", defaultCladoBaseURL)
	v.SetDefault("openai.base_url", defaultOpenAIBaseURL)
	v.SetDefault("enrich.pacing", defaultEnrichPacing.String())
	v.SetDefault("metrics.port", 0)

	// Env vars take precedence over the file
	_ = v.BindEnv("apollo.api_key", "APOLLO_API_KEY")
	_ = v.BindEnv("hunter.api_key", "HUNTER_API_KEY")
	_ = v.BindEnv("clado.api_key", "CLADO_API_KEY")
	_ = v.BindEnv("openai.api_key", "OPENAI_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	pacing, err := time.ParseDuration(v.GetString("enrich.pacing"))
	if err != nil {
		return nil, fmt.Errorf("invalid enrich.pacing value %q: %w", v.GetString("enrich.pacing"), err)
	}

	return &Config{
		ApolloAPIKey:  v.GetString("apollo.api_key"),
		HunterAPIKey:  v.GetString("hunter.api_key"),
		CladoAPIKey:   v.GetString("clado.api_key"),
		OpenAIAPIKey:  v.GetString("openai.api_key"),
		ApolloBaseURL: v.GetString("apollo.base_url"),
		HunterBaseURL: v.GetString("hunter.base_url"),
		CladoBaseURL:  v.GetString("clado.base_url"),
		OpenAIBaseURL: v.GetString("openai.base_url"),
		EnrichPacing:  pacing,
		MetricsPort:   v.GetInt("metrics.port"),
	}, nil
}

// AvailableAPIs lists the search providers that have an API key configured.
func (c *Config) AvailableAPIs() []string {
	var apis []string
	if c.ApolloAPIKey != "" {
		apis = append(apis, "apollo")
	}
	if c.HunterAPIKey != "" {
		apis = append(apis, "hunter")
	}
	return apis
}

// EnrichEnabled reports whether Clado enrichment can run.
func (c *Config) EnrichEnabled() bool {
	return c.CladoAPIKey != ""
}
