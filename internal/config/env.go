package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Environment variable names read by LoadSecrets.
const (
	EnvGeminiAPIKey     = "GEMINI_API_KEY"
	EnvGoogleAPIKey     = "GOOGLE_API_KEY"
	EnvNotionToken      = "NOTION_INTERNAL_SECRET"
	EnvNotionDatabaseID = "NOTION_DATABASE_ID"
	EnvCalendarToken    = "GOOGLE_CALENDAR_TOKEN"
)

// Secrets holds credentials that never live in config files.
type Secrets struct {
	GeminiAPIKey     string
	NotionToken      string
	NotionDatabaseID string
	CalendarToken    string
}

// LoadSecrets reads dir/.env into the process environment, without
// overriding variables that are already set, and then reads the secrets.
func LoadSecrets(dir string) (Secrets, error) {
	envPath := filepath.Join(dir, ".env")
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return Secrets{}, fmt.Errorf("load %s: %w", envPath, err)
		}
	} else if !os.IsNotExist(err) {
		return Secrets{}, fmt.Errorf("stat %s: %w", envPath, err)
	}

	apiKey := os.Getenv(EnvGeminiAPIKey)
	if apiKey == "" {
		apiKey = os.Getenv(EnvGoogleAPIKey)
	}
	return Secrets{
		GeminiAPIKey:     apiKey,
		NotionToken:      os.Getenv(EnvNotionToken),
		NotionDatabaseID: os.Getenv(EnvNotionDatabaseID),
		CalendarToken:    os.Getenv(EnvCalendarToken),
	}, nil
}

// NotionDatabaseID prefers the config file's database id over the environment.
func (c *Config) NotionDatabaseID(secrets Secrets) string {
	if c.Notion.DatabaseID != "" {
		return c.Notion.DatabaseID
	}
	return secrets.NotionDatabaseID
}
