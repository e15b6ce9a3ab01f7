package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	CredsFile string
	Output    string
	Verbose   bool
}

// Credentials are the saved login details for the play command
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("COOKIECTL_SERVER", "http://localhost:8080"),
		CredsFile: getEnvOrDefault("COOKIECTL_CREDS_FILE", defaultCredsFile()),
		Output:    "text",
		Verbose:   false,
	}
}

// LoadCredentials reads saved credentials; both values are empty when no
// credentials have been saved
func (c *Config) LoadCredentials() (Credentials, error) {
	var creds Credentials

	data, err := os.ReadFile(c.CredsFile)
	if err != nil {
		if os.IsNotExist(err) {
			return creds, nil
		}
		return creds, err
	}

	if err := json.Unmarshal(data, &creds); err != nil {
		return Credentials{}, err
	}
	return creds, nil
}

// SaveCredentials persists login details for later play sessions
func (c *Config) SaveCredentials(creds Credentials) error {
	dir := filepath.Dir(c.CredsFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	return os.WriteFile(c.CredsFile, data, 0600)
}

func defaultCredsFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cookiectl/credentials"
	}
	return filepath.Join(home, ".cookiectl", "credentials")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
