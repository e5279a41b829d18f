package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	apperrors "cryptoboard/internal/errors"

	"gopkg.in/yaml.v3"
)

// Credentials is the Binance key pair read from the credential file.
type Credentials struct {
	APIKey    string `json:"apiKey" yaml:"apiKey"`
	SecretKey string `json:"secretKey" yaml:"secretKey"`
}

// LoadCredentials reads a JSON file, or YAML when the extension is .yaml/.yml.
func LoadCredentials(path string) (*Credentials, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Fatal(apperrors.CredentialsError,
			fmt.Sprintf("failed to read credential file %q", path), err)
	}

	creds := &Credentials{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, creds)
	default:
		err = json.Unmarshal(raw, creds)
	}
	if err != nil {
		return nil, apperrors.Fatal(apperrors.CredentialsError,
			fmt.Sprintf("failed to parse credential file %q", path), err)
	}

	if creds.APIKey == "" || creds.SecretKey == "" {
		return nil, apperrors.New(apperrors.CredentialsError, apperrors.KindFatal,
			fmt.Sprintf("credential file %q must set apiKey and secretKey", path))
	}
	return creds, nil
}
