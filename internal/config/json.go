package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] for the optional JSON
// configuration file. Fields deliberately exclude secret material (signing
// keys, payment API keys), which may only arrive via environment variables.
type StructuredJSONConfig struct {
	Server struct {
		Address       string   `json:"address"`
		BaseURL       string   `json:"base_url"`
		UploadTimeout Duration `json:"upload_timeout"`
		NonceDuration Duration `json:"nonce_duration"`
	} `json:"server,omitempty"`

	Payment struct {
		ProviderURL string `json:"provider_url"`
	} `json:"payment,omitempty"`

	Auth struct {
		EmailCertType    string `json:"email_cert_type"`
		TrustedCertifier string `json:"trusted_certifier"`
	} `json:"auth,omitempty"`

	Cluster struct {
		Bootstrap bool     `json:"bootstrap"`
		Peers     []string `json:"peers"`
	} `json:"cluster,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
		ArtifactsDir string `json:"artifacts_dir"`
	} `json:"storage,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Server: Server{
			Address:       jsonCfg.Server.Address,
			BaseURL:       jsonCfg.Server.BaseURL,
			UploadTimeout: time.Duration(jsonCfg.Server.UploadTimeout),
			NonceDuration: time.Duration(jsonCfg.Server.NonceDuration),
		},
		Payment: Payment{
			ProviderURL: jsonCfg.Payment.ProviderURL,
		},
		Auth: Auth{
			EmailCertType:    jsonCfg.Auth.EmailCertType,
			TrustedCertifier: jsonCfg.Auth.TrustedCertifier,
		},
		Cluster: Cluster{
			Bootstrap: jsonCfg.Cluster.Bootstrap,
			Peers:     jsonCfg.Cluster.Peers,
		},
		Storage: Storage{
			DB:           DB{DSN: jsonCfg.Storage.DB.DSN},
			ArtifactsDir: jsonCfg.Storage.ArtifactsDir,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON
// unmarshaling from strings like "2h", "30s".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration: %v", v)
	}
}
