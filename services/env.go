package services

import (
	"log"
	"os"
	"strings"
)

// LoadEnvVariables loads environment variables without doing any database operations
func LoadEnvVariables() {
	log.Println("Loading environment variables...")

	// Load .env file if it exists (for local dev)
	// Try first in the current directory, then in the parent directory
	envPaths := []string{".env", "../.env"}

	for _, path := range envPaths {
		if _, err := os.Stat(path); err != nil {
			continue
		}

		log.Printf("Found .env file at %s", path)
		content, err := os.ReadFile(path)
		if err != nil {
			log.Printf("Error reading .env file: %v", err)
			continue
		}

		for _, line := range strings.Split(string(content), "\n") {
			if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
				continue
			}
			parts := strings.SplitN(line, "=", 2)
			if len(parts) == 2 {
				key := strings.TrimSpace(parts[0])
				value := strings.TrimSpace(parts[1])
				os.Setenv(key, value)
				if strings.Contains(strings.ToUpper(key), "WARRANTY") {
					// Log the key but not the value
					log.Printf("Set environment variable: %s", key)
				}
			}
		}
		return // Exit after loading the first found .env file
	}

	log.Printf("No .env file found in search paths: %v", envPaths)
}
