// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "strings"

// TierName identifies a quota/feature plan. Values are stored verbatim in the
// user_type column of the users table.
type TierName string

const (
	TierFree     TierName = "free"
	TierPro      TierName = "pro"
	TierAdvanced TierName = "advanced"
)

// Unlimited is the DailyRequestLimit value of a tier without a daily cap.
const Unlimited = -1

// ParseTierName normalises a user-supplied plan name. Unknown and empty
// names fall back to [TierFree], matching how rows with a missing or
// unrecognised user_type have always been treated.
func ParseTierName(s string) TierName {
	switch TierName(strings.ToLower(strings.TrimSpace(s))) {
	case TierPro:
		return TierPro
	case TierAdvanced:
		return TierAdvanced
	default:
		return TierFree
	}
}

// Tier is an immutable policy definition: how many requests a user may make
// per day and how many devices may hold a live session at once.
type Tier struct {
	Name                  TierName `json:"name" yaml:"name"`
	DisplayName           string   `json:"display_name" yaml:"display_name"`
	DailyRequestLimit     int      `json:"daily_request_limit" yaml:"daily_request_limit"`
	MaxConcurrentSessions int      `json:"max_concurrent_sessions" yaml:"max_concurrent_sessions"`
	Features              []string `json:"features" yaml:"features"`
}

// IsUnlimited reports whether the tier has no daily request cap.
func (t Tier) IsUnlimited() bool {
	return t.DailyRequestLimit == Unlimited
}

// HasFeature reports whether the tier grants capability tag feature.
// The special tag "all" grants every feature.
func (t Tier) HasFeature(feature string) bool {
	for _, f := range t.Features {
		if f == feature || f == "all" {
			return true
		}
	}
	return false
}
