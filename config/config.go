package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"seekr/search"
)

type Config struct {
	AppPort       int
	ProxyURL      string
	OpenAIAPIKey  string
	OpenAIModel   string
	TavilyAPIKey  string
	SerpAPIKey    string
	TicketDBPath  string
	VisitDBPath   string
	EnginesPath   string
	BrowserEnable bool
}

func Load() (*Config, error) {
	appPort, err := strconv.Atoi(getEnvDefault("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	return &Config{
		AppPort:       appPort,
		ProxyURL:      os.Getenv("PROXY_URL"),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY"),
		OpenAIModel:   getEnvDefault("OPENAI_MODEL", "gpt-4o-mini"),
		TavilyAPIKey:  os.Getenv("TAVILY_API_KEY"),
		SerpAPIKey:    os.Getenv("SERPAPI_API_KEY"),
		TicketDBPath:  getEnvDefault("TICKET_DB_PATH", "data/tickets.db"),
		VisitDBPath:   getEnvDefault("VISIT_DB_PATH", "data/visits.db"),
		EnginesPath:   os.Getenv("ENGINES_PATH"),
		BrowserEnable: os.Getenv("BROWSER_ENABLE") == "true",
	}, nil
}

func getEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("Environment variable %s is required but not set", key)
	}
	return value
}

func getEnvDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// enginesFile is the YAML layout of the optional engine-chain file.
type enginesFile struct {
	Disabled []string            `yaml:"disabled"`
	Order    map[string][]string `yaml:"order"`
}

// LoadEngines reads the engine-chain overrides from path. An empty path
// returns the built-in defaults.
func LoadEngines(path, serpAPIKey string) (search.RegistryConfig, error) {
	cfg := search.RegistryConfig{SerpAPIKey: serpAPIKey}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read engines file: %w", err)
	}

	var file enginesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, fmt.Errorf("failed to parse engines file: %w", err)
	}

	cfg.Disabled = file.Disabled
	if len(file.Order) > 0 {
		cfg.Order = make(map[search.Category][]string, len(file.Order))
		for cat, names := range file.Order {
			cfg.Order[search.Category(cat)] = names
		}
	}
	return cfg, nil
}
