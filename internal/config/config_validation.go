// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "fmt"

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or an error wrapping one of the
// ErrInvalid* sentinels otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.App.TokenSignKey == "" {
		return fmt.Errorf("%w: token sign key is required", ErrInvalidAppConfigs)
	}
	if cfg.App.TokenDuration <= 0 || cfg.App.StoreTimeout <= 0 {
		return fmt.Errorf("%w: token duration and store timeout must be positive", ErrInvalidAppConfigs)
	}
	if cfg.App.FailPolicy != FailOpen && cfg.App.FailPolicy != FailClosed {
		return fmt.Errorf("%w: unknown fail policy %q", ErrInvalidAppConfigs, cfg.App.FailPolicy)
	}

	switch cfg.Storage.DB.Driver {
	case DriverPostgres, DriverSQLite:
		if cfg.Storage.DB.DSN == "" {
			return fmt.Errorf("%w: dsn is required for driver %q", ErrInvalidStorageConfigs, cfg.Storage.DB.Driver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("%w: unknown driver %q", ErrInvalidStorageConfigs, cfg.Storage.DB.Driver)
	}
	if cfg.Storage.Backup.Endpoint != "" && cfg.Storage.Backup.Bucket == "" {
		return fmt.Errorf("%w: backup bucket is required", ErrInvalidStorageConfigs)
	}

	p := cfg.Policy
	if p.LivenessWindow <= 0 || p.AnomalyWindow <= 0 || p.MaxIPsPerWindow <= 0 || p.MaxFreeRequestsPerWindow <= 0 {
		return ErrInvalidPolicyConfigs
	}

	if cfg.Server.HTTPAddress == "" || cfg.Server.RequestTimeout <= 0 {
		return ErrInvalidServerConfigs
	}

	return nil
}
