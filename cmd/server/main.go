package main

import (
	"flag"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/orcasound-tools/shipnoise-analyzer/internal/analyzer"
)

var (
	port           int
	dataRoot       string
	windowSize     int
	allowedOrigins string
)

func init() {
	// .env is optional; flags and real environment win over it.
	_ = godotenv.Load()

	flag.IntVar(&port, "port", getEnvIntOrDefault("PORT", 8080), "HTTP server port")
	flag.StringVar(&dataRoot, "data", getEnvOrDefault("SHIPNOISE_DATA_ROOT", "output"), "Root directory of hydrophone recordings")
	flag.IntVar(&windowSize, "nfft", 256, "Spectrogram FFT window size")
	flag.StringVar(&allowedOrigins, "origins", "*", "Comma-separated list of allowed CORS origins (use * for all)")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func main() {
	flag.Parse()

	var origins []string
	if allowedOrigins == "*" {
		origins = []string{"*"}
	} else {
		origins = strings.Split(allowedOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
	}

	service, err := analyzer.NewService(
		analyzer.WithDataRoot(dataRoot),
		analyzer.WithWindowSize(windowSize),
	)
	if err != nil {
		log.Fatalf("Failed to create service: %v", err)
	}

	config := &ServerConfig{
		Port:           port,
		DataRoot:       dataRoot,
		WindowSize:     windowSize,
		AllowedOrigins: origins,
	}

	server := NewServer(service, config)
	if err := server.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
