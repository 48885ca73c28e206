package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidAppConfigs indicates invalid application-level settings
	// (for example, missing token sign key or an unknown fail policy).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, unknown driver or empty DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidPolicyConfigs indicates non-positive windows or thresholds.
	ErrInvalidPolicyConfigs = errors.New("invalid policy configuration")
	// ErrInvalidServerConfigs indicates a missing HTTP address or timeout.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
)
