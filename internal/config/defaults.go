package config

import "time"

// defaults returns the configuration used for every field no source sets.
func defaults() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenIssuer:   "scrapegate",
			TokenDuration: 24 * time.Hour,
			StoreTimeout:  3 * time.Second,
			FailPolicy:    FailOpen,
		},
		Policy: Policy{
			LivenessWindow:           time.Hour,
			AnomalyWindow:            time.Hour,
			MaxIPsPerWindow:          3,
			MaxFreeRequestsPerWindow: 100,
		},
		Storage: Storage{
			DB: DB{
				Driver: DriverSQLite,
				DSN:    "scrapegate.db",
			},
			Redis: Redis{
				LockTTL: 5 * time.Second,
			},
			Backup: Backup{
				Bucket: "scrapegate-backups",
			},
		},
		Server: Server{
			HTTPAddress:    "localhost:8080",
			RequestTimeout: 10 * time.Second,
		},
		Workers: Workers{
			SessionPurgeSchedule: "0 */15 * * * *",
			BackupSchedule:       "0 0 3 * * 0",
		},
	}
}
