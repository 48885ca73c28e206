package tiers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/MKhiriev/scrapegate/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tiers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault_PredefinedTiers(t *testing.T) {
	c := Default()

	free := c.Get(models.TierFree)
	assert.Equal(t, 50, free.DailyRequestLimit)
	assert.Equal(t, 1, free.MaxConcurrentSessions)

	pro := c.Get(models.TierPro)
	assert.Equal(t, 500, pro.DailyRequestLimit)
	assert.Equal(t, 2, pro.MaxConcurrentSessions)

	adv := c.Get(models.TierAdvanced)
	assert.True(t, adv.IsUnlimited())
	assert.Equal(t, 5, adv.MaxConcurrentSessions)
	assert.True(t, adv.HasFeature("json_export"))
}

func TestGet_UnknownFallsBackToFree(t *testing.T) {
	assert.Equal(t, models.TierFree, Default().Get("platinum").Name)
}

func TestAll_Order(t *testing.T) {
	all := Default().All()
	require.Len(t, all, 3)
	assert.Equal(t, models.TierFree, all[0].Name)
	assert.Equal(t, models.TierPro, all[1].Name)
	assert.Equal(t, models.TierAdvanced, all[2].Name)
}

func TestLoadFile_EmptyPath(t *testing.T) {
	c, err := LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadFile_OverridesOnlyListedTiers(t *testing.T) {
	path := writeCatalog(t, `
tiers:
  - name: pro
    daily_request_limit: 1000
    max_concurrent_sessions: 3
`)

	c, err := LoadFile(path)
	require.NoError(t, err)

	pro := c.Get(models.TierPro)
	assert.Equal(t, 1000, pro.DailyRequestLimit)
	assert.Equal(t, 3, pro.MaxConcurrentSessions)
	assert.Equal(t, "Pro", pro.DisplayName)
	assert.True(t, pro.HasFeature("google_sheets"))

	assert.Equal(t, 50, c.Get(models.TierFree).DailyRequestLimit)
}

func TestLoadFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{
			name:    "unknown tier",
			body:    "tiers:\n  - name: gold\n    daily_request_limit: 1\n    max_concurrent_sessions: 1\n",
			wantErr: ErrUnknownTier,
		},
		{
			name:    "zero sessions",
			body:    "tiers:\n  - name: free\n    daily_request_limit: 10\n    max_concurrent_sessions: 0\n",
			wantErr: ErrInvalidTier,
		},
		{
			name:    "limit below unlimited",
			body:    "tiers:\n  - name: free\n    daily_request_limit: -2\n    max_concurrent_sessions: 1\n",
			wantErr: ErrInvalidTier,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeCatalog(t, tt.body))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading tier catalog file")
}

func TestLoadFile_BadYAML(t *testing.T) {
	_, err := LoadFile(writeCatalog(t, "tiers: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error decoding tier catalog")
}
