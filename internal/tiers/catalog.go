// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package tiers holds the static mapping from plan name to quota parameters.
//
// The built-in catalog defines the Free, Pro and Advanced plans. Deployments
// may override individual plans from a YAML file; plans absent from the file
// keep their built-in values.
package tiers

import (
	"errors"
	"fmt"
	"os"

	"github.com/MKhiriev/scrapegate/models"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownTier is returned by [LoadFile] when the file names a plan
	// other than free, pro or advanced.
	ErrUnknownTier = errors.New("unknown tier")

	// ErrInvalidTier is returned by [LoadFile] when a plan has non-positive
	// session caps or a daily limit below [models.Unlimited].
	ErrInvalidTier = errors.New("invalid tier definition")
)

// Catalog is an immutable plan lookup table. The zero value is not usable;
// construct with [Default] or [LoadFile].
type Catalog struct {
	tiers map[models.TierName]models.Tier
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return &Catalog{tiers: map[models.TierName]models.Tier{
		models.TierFree: {
			Name:                  models.TierFree,
			DisplayName:           "Free",
			DailyRequestLimit:     50,
			MaxConcurrentSessions: 1,
			Features:              []string{"basic_scraping", "csv_export"},
		},
		models.TierPro: {
			Name:                  models.TierPro,
			DisplayName:           "Pro",
			DailyRequestLimit:     500,
			MaxConcurrentSessions: 2,
			Features:              []string{"basic_scraping", "csv_export", "json_export", "excel_export", "google_sheets"},
		},
		models.TierAdvanced: {
			Name:                  models.TierAdvanced,
			DisplayName:           "Advanced",
			DailyRequestLimit:     models.Unlimited,
			MaxConcurrentSessions: 5,
			Features:              []string{"all"},
		},
	}}
}

// Get returns the tier for name. Unknown names resolve to the Free tier.
func (c *Catalog) Get(name models.TierName) models.Tier {
	if t, ok := c.tiers[name]; ok {
		return t
	}
	return c.tiers[models.TierFree]
}

// All returns the plans in ascending order.
func (c *Catalog) All() []models.Tier {
	return []models.Tier{
		c.tiers[models.TierFree],
		c.tiers[models.TierPro],
		c.tiers[models.TierAdvanced],
	}
}

type catalogFile struct {
	Tiers []models.Tier `yaml:"tiers"`
}

// LoadFile returns the built-in catalog with the plans found in the YAML file
// at path applied on top. An empty path returns [Default].
//
// File format:
//
//	tiers:
//	  - name: pro
//	    daily_request_limit: 1000
//	    max_concurrent_sessions: 3
//	    features: [basic_scraping, csv_export]
func LoadFile(path string) (*Catalog, error) {
	catalog := Default()
	if path == "" {
		return catalog, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading tier catalog file: %w", err)
	}

	var file catalogFile
	if err = yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("error decoding tier catalog: %w", err)
	}

	for _, t := range file.Tiers {
		name := models.TierName(t.Name)
		base, ok := catalog.tiers[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTier, t.Name)
		}
		if t.DailyRequestLimit < models.Unlimited || t.MaxConcurrentSessions < 1 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTier, t.Name)
		}

		base.DailyRequestLimit = t.DailyRequestLimit
		base.MaxConcurrentSessions = t.MaxConcurrentSessions
		if t.DisplayName != "" {
			base.DisplayName = t.DisplayName
		}
		if len(t.Features) > 0 {
			base.Features = t.Features
		}
		catalog.tiers[name] = base
	}

	return catalog, nil
}
