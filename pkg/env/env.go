package env

import (
	"fmt"
	"os"
)

// Get returns the value of the environment variable or the fallback when unset.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// MustGet returns the value of the environment variable or an error when unset.
func MustGet(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("environment variable %s is required", key)
	}
	return val, nil
}
