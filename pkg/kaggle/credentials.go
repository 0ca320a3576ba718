package kaggle

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Credentials is the API token pair from kaggle.json.
type Credentials struct {
	Username string `json:"username"`
	Key      string `json:"key"`
}

// DefaultCredentialsPath returns the standard kaggle.json location
// (~/.kaggle/kaggle.json).
func DefaultCredentialsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".kaggle", "kaggle.json"), nil
}

// LoadCredentials reads and validates an API token file. An empty path
// falls back to DefaultCredentialsPath.
func LoadCredentials(path string) (Credentials, error) {
	if path == "" {
		var err error
		path, err = DefaultCredentialsPath()
		if err != nil {
			return Credentials{}, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Credentials{}, fmt.Errorf("read credentials %s: %w", path, err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return Credentials{}, fmt.Errorf("parse credentials %s: %w", path, err)
	}
	if creds.Username == "" || creds.Key == "" {
		return Credentials{}, fmt.Errorf("credentials %s missing username or key", path)
	}

	return creds, nil
}
