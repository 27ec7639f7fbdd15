package utils

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Getenv retrieves the value of the environment variable named by the key.
// If the variable is not present or its value is empty, Getenv returns the fallback string.
func Getenv(key, fallback string) string {
	value := os.Getenv(key)
	if len(value) == 0 {
		return fallback
	}
	return value
}

// GetenvInt parses the variable as an int, falling back on absence or parse failure.
func GetenvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		LogWarn("Invalid integer in environment, using default", map[string]interface{}{"key": key, "value": value})
		return fallback
	}
	return n
}

// GetenvDuration accepts Go duration strings ("15m", "3h10m").
func GetenvDuration(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		LogWarn("Invalid duration in environment, using default", map[string]interface{}{"key": key, "value": value})
		return fallback
	}
	return d
}

// GetenvBool treats "1", "true", "yes" (any case) as true.
func GetenvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch value {
	case "":
		return fallback
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
