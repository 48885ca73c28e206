package client

import (
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/scrapegate/internal/adapter"
	"github.com/MKhiriev/scrapegate/internal/config"
	"github.com/MKhiriev/scrapegate/models"
	"github.com/stretchr/testify/assert"
)

func TestRenderPage_AlignsLabels(t *testing.T) {
	out := renderPage("title", row{"a", "1"}, row{"longer", "2"})

	assert.True(t, strings.HasSuffix(out, "\n"))
	assert.Contains(t, out, "title")
	assert.Contains(t, out, "a       1")
	assert.Contains(t, out, "longer  2")
}

func TestRenderServerInfo(t *testing.T) {
	out := renderServerInfo(adapter.ServerInfo{
		Version:      "1.2.3",
		Capabilities: config.Capabilities{Backup: true},
	}, models.NewAppBuildInfo("0.1.0", "today", "abc"))

	assert.Contains(t, out, "1.2.3")
	assert.Contains(t, out, "0.1.0")
	assert.Contains(t, out, "abc")
	assert.Contains(t, out, "yes")
	assert.Contains(t, out, "no")
}

func TestRenderAuthResult(t *testing.T) {
	t.Run("denied shows reason", func(t *testing.T) {
		out := renderAuthResult(models.AuthResult{Outcome: models.OutcomeDenied, Reason: models.ReasonBanned})
		assert.Contains(t, out, "denied")
		assert.Contains(t, out, models.ReasonBanned)
	})

	t.Run("degraded admission is flagged", func(t *testing.T) {
		out := renderAuthResult(models.AuthResult{OK: true, Outcome: models.OutcomeAdmitted, Degraded: true})
		assert.Contains(t, out, "degraded")
	})
}

func TestRenderQuota(t *testing.T) {
	out := renderQuota(models.QuotaStatus{Allowed: true, RequestsToday: 7, DailyLimit: 10, Tier: models.TierFree})
	assert.Contains(t, out, "7 / 10")
	assert.Contains(t, out, "free")
}

func TestRenderStats_TiersSorted(t *testing.T) {
	out := renderStats(models.UserStats{
		TotalUsers: 3,
		TierCounts: map[models.TierName]int{models.TierPro: 1, models.TierAdvanced: 1, models.TierFree: 1},
	})

	adv := strings.Index(out, "tier advanced")
	free := strings.Index(out, "tier free")
	pro := strings.Index(out, "tier pro")
	assert.True(t, adv >= 0 && adv < free && free < pro, out)
}

func TestRenderActivityOutcome_Ban(t *testing.T) {
	out := renderActivityOutcome(models.ActivityOutcome{
		Outcome: models.OutcomeAutoBanned,
		Ban:     &models.BanDecision{Reason: "too many ips"},
	})
	assert.Contains(t, out, "too many ips")
	assert.Contains(t, out, "ban detail")
}

func TestRenderContact(t *testing.T) {
	assert.Contains(t, renderContact(nil), "0")

	out := renderContact([]models.ContactMessage{
		{Name: "Ann", Email: "ann@example.com", Message: "hello", Timestamp: time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC)},
	})
	assert.Contains(t, out, "2026-01-02 03:04")
	assert.Contains(t, out, "hello")
}
