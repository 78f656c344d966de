package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the client configuration
type Config struct {
	GatewayURL  string        // Base URL of the banking API gateway
	HTTPTimeout time.Duration // Per-request timeout for gateway calls
	LogLevel    string        // logrus level name
}

// Load reads configuration from the environment, with a .env file loaded
// first when present.
func Load() *Config {
	_ = godotenv.Load()

	gatewayURL := os.Getenv("GATEWAY_URL")
	if gatewayURL == "" {
		gatewayURL = "http://localhost:8090"
	}

	timeoutSecs, _ := strconv.Atoi(os.Getenv("HTTP_TIMEOUT_SECONDS"))
	if timeoutSecs <= 0 {
		timeoutSecs = 15
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	return &Config{
		GatewayURL:  gatewayURL,
		HTTPTimeout: time.Duration(timeoutSecs) * time.Second,
		LogLevel:    logLevel,
	}
}
