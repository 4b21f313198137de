package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration.
type Config struct {
	Port      string
	JWTSecret string

	// Rate limiting for the public API.
	RateLimit       int
	RateLimitWindow time.Duration

	// Time zone used for calendar-date rollups (daily ski durations).
	SkiTimeZone *time.Location
}

// Load reads configuration from the environment with sane defaults.
func Load() *Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "your-secret-key-change-in-production"
	}

	rateLimit := 120
	if v := os.Getenv("RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			rateLimit = n
		}
	}

	loc := time.Local
	if tz := os.Getenv("SKI_TIMEZONE"); tz != "" {
		parsed, err := time.LoadLocation(tz)
		if err != nil {
			log.Printf("Invalid SKI_TIMEZONE %q, falling back to local: %v", tz, err)
		} else {
			loc = parsed
		}
	}

	return &Config{
		Port:            port,
		JWTSecret:       jwtSecret,
		RateLimit:       rateLimit,
		RateLimitWindow: time.Minute,
		SkiTimeZone:     loc,
	}
}
