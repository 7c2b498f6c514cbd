package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"serena-mcp/internal/credentials"
	"serena-mcp/internal/integrations"

	"github.com/joho/godotenv"
)

// Config holds application configuration values loaded from environment variables.
type Config struct {
	HTTPPort        string
	GithubAPIURL    string
	FlyAPIURL       string
	GithubTokenEnv  string // name of the variable holding the GitHub token
	FlyTokenEnv     string // name of the variable holding the Fly token
	UpstreamTimeout time.Duration
	RequestTimeout  time.Duration
	AllowedOrigins  []string
	AuthSecret      string // enables bearer auth on /mcp when non-empty
	RateLimitRPS    float64
	RateLimitBurst  int
	LogParams       bool
}

// Defaults returns the configuration used when no environment is set.
func Defaults() *Config {
	return &Config{
		HTTPPort:        "8000",
		GithubAPIURL:    integrations.DefaultGithubAPIURL,
		FlyAPIURL:       integrations.DefaultFlyAPIURL,
		GithubTokenEnv:  credentials.GithubTokenEnv,
		FlyTokenEnv:     credentials.FlyTokenEnv,
		UpstreamTimeout: 30 * time.Second,
		RequestTimeout:  60 * time.Second,
		AllowedOrigins:  []string{"*"},
	}
}

// LoadConfig loads configuration from environment variables.
// It looks for a .env file first, then checks actual environment variables.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file (useful for development)
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: Could not load .env file. Using environment variables only.", err)
	}

	def := Defaults()
	cfg := &Config{
		HTTPPort:        getEnv("PORT", def.HTTPPort),
		GithubAPIURL:    getEnv("GITHUB_API_URL", def.GithubAPIURL),
		FlyAPIURL:       getEnv("FLY_API_URL", def.FlyAPIURL),
		GithubTokenEnv:  getEnv("GITHUB_TOKEN_ENV", def.GithubTokenEnv),
		FlyTokenEnv:     getEnv("FLY_TOKEN_ENV", def.FlyTokenEnv),
		UpstreamTimeout: getSeconds("UPSTREAM_TIMEOUT_SECONDS", def.UpstreamTimeout),
		RequestTimeout:  getSeconds("REQUEST_TIMEOUT_SECONDS", def.RequestTimeout),
		AllowedOrigins:  splitList(getEnv("CORS_ALLOWED_ORIGINS", strings.Join(def.AllowedOrigins, ","))),
		AuthSecret:      getEnv("MCP_AUTH_SECRET", ""),
		RateLimitRPS:    getFloat("RATE_LIMIT_RPS", 0),
		RateLimitBurst:  getInt("RATE_LIMIT_BURST", 0),
		LogParams:       getBool("LOG_PARAMS", false),
	}

	log.Printf("Loaded config: Port=%s, GitHubAPI=%s, FlyAPI=%s, UpstreamTimeout=%s, RequestTimeout=%s, Auth=%t, RateLimit=%.2f/%d, AuthSecret=***",
		cfg.HTTPPort, cfg.GithubAPIURL, cfg.FlyAPIURL, cfg.UpstreamTimeout, cfg.RequestTimeout,
		cfg.AuthSecret != "", cfg.RateLimitRPS, cfg.RateLimitBurst)

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Env variable %s not set, using default: %s", key, fallback)
	return fallback
}

func getSeconds(key string, fallback time.Duration) time.Duration {
	raw := getEnv(key, strconv.Itoa(int(fallback/time.Second)))
	secs, err := strconv.Atoi(raw)
	if err != nil || secs <= 0 {
		log.Printf("Warning: Invalid %s '%s', using default %s.", key, raw, fallback)
		return fallback
	}
	return time.Duration(secs) * time.Second
}

func getInt(key string, fallback int) int {
	raw := getEnv(key, strconv.Itoa(fallback))
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		log.Printf("Warning: Invalid %s '%s', using default %d.", key, raw, fallback)
		return fallback
	}
	return v
}

func getFloat(key string, fallback float64) float64 {
	raw := getEnv(key, strconv.FormatFloat(fallback, 'f', -1, 64))
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		log.Printf("Warning: Invalid %s '%s', using default %v.", key, raw, fallback)
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	raw := getEnv(key, strconv.FormatBool(fallback))
	v, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("Warning: Invalid %s '%s', using default %t.", key, raw, fallback)
		return fallback
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
