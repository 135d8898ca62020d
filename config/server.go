package config

import "os"

type ServerConfig struct {
	Port          string
	AllowedOrigin string
	AuthEnabled   bool
	AuthToken     string
}

func GetServerConfig() (*ServerConfig, error) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigin := os.Getenv("ALLOWED_ORIGIN")
	if allowedOrigin == "" {
		allowedOrigin = "*"
	}

	return &ServerConfig{
		Port:          port,
		AllowedOrigin: allowedOrigin,
		AuthEnabled:   os.Getenv("API_AUTH_ENABLED") == "true",
		AuthToken:     os.Getenv("API_AUTH_TOKEN"),
	}, nil
}
