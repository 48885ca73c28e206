package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] for JSON decoding.
// Durations are accepted either as strings ("1h", "30s") or nanoseconds.
type StructuredJSONConfig struct {
	App struct {
		TokenSignKey    string   `json:"token_sign_key"`
		TokenIssuer     string   `json:"token_issuer"`
		TokenDuration   Duration `json:"token_duration"`
		AdminKeyHash    string   `json:"admin_key_hash"`
		StoreTimeout    Duration `json:"store_timeout"`
		FailPolicy      string   `json:"fail_policy"`
		TierCatalogFile string   `json:"tier_catalog_file"`
		Version         string   `json:"version"`
	} `json:"app,omitempty"`

	Policy struct {
		LivenessWindow           Duration `json:"liveness_window"`
		AnomalyWindow            Duration `json:"anomaly_window"`
		MaxIPsPerWindow          int      `json:"max_ips_per_window"`
		MaxFreeRequestsPerWindow int      `json:"max_free_requests_per_window"`
	} `json:"policy,omitempty"`

	Storage struct {
		DB struct {
			Driver string `json:"driver"`
			DSN    string `json:"dsn"`
		} `json:"db,omitempty"`

		Redis struct {
			Addr     string   `json:"addr"`
			Password string   `json:"password"`
			DB       int      `json:"db"`
			LockTTL  Duration `json:"lock_ttl"`
		} `json:"redis,omitempty"`

		Backup struct {
			Endpoint  string `json:"endpoint"`
			AccessKey string `json:"access_key"`
			SecretKey string `json:"secret_key"`
			Bucket    string `json:"bucket"`
			Region    string `json:"region"`
			UseSSL    bool   `json:"use_ssl"`
		} `json:"backup,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress     string   `json:"http_address"`
		GRPCAddress     string   `json:"grpc_address"`
		RequestTimeout  Duration `json:"request_timeout"`
		MetricsDisabled bool     `json:"metrics_disabled"`
	} `json:"server,omitempty"`

	Workers struct {
		SessionPurgeSchedule string `json:"session_purge_schedule"`
		BackupSchedule       string `json:"backup_schedule"`
	} `json:"workers,omitempty"`
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
		App: App{
			TokenSignKey:    jsonCfg.App.TokenSignKey,
			TokenIssuer:     jsonCfg.App.TokenIssuer,
			TokenDuration:   time.Duration(jsonCfg.App.TokenDuration),
			AdminKeyHash:    jsonCfg.App.AdminKeyHash,
			StoreTimeout:    time.Duration(jsonCfg.App.StoreTimeout),
			FailPolicy:      jsonCfg.App.FailPolicy,
			TierCatalogFile: jsonCfg.App.TierCatalogFile,
			Version:         jsonCfg.App.Version,
		},
		Policy: Policy{
			LivenessWindow:           time.Duration(jsonCfg.Policy.LivenessWindow),
			AnomalyWindow:            time.Duration(jsonCfg.Policy.AnomalyWindow),
			MaxIPsPerWindow:          jsonCfg.Policy.MaxIPsPerWindow,
			MaxFreeRequestsPerWindow: jsonCfg.Policy.MaxFreeRequestsPerWindow,
		},
		Storage: Storage{
			DB: DB{
				Driver: jsonCfg.Storage.DB.Driver,
				DSN:    jsonCfg.Storage.DB.DSN,
			},
			Redis: Redis{
				Addr:     jsonCfg.Storage.Redis.Addr,
				Password: jsonCfg.Storage.Redis.Password,
				DB:       jsonCfg.Storage.Redis.DB,
				LockTTL:  time.Duration(jsonCfg.Storage.Redis.LockTTL),
			},
			Backup: Backup{
				Endpoint:  jsonCfg.Storage.Backup.Endpoint,
				AccessKey: jsonCfg.Storage.Backup.AccessKey,
				SecretKey: jsonCfg.Storage.Backup.SecretKey,
				Bucket:    jsonCfg.Storage.Backup.Bucket,
				Region:    jsonCfg.Storage.Backup.Region,
				UseSSL:    jsonCfg.Storage.Backup.UseSSL,
			},
		},
		Server: Server{
			HTTPAddress:     jsonCfg.Server.HTTPAddress,
			GRPCAddress:     jsonCfg.Server.GRPCAddress,
			RequestTimeout:  time.Duration(jsonCfg.Server.RequestTimeout),
			MetricsDisabled: jsonCfg.Server.MetricsDisabled,
		},
		Workers: Workers{
			SessionPurgeSchedule: jsonCfg.Workers.SessionPurgeSchedule,
			BackupSchedule:       jsonCfg.Workers.BackupSchedule,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
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
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
