package client

import (
	"fmt"
	"sort"
	"strings"

	"github.com/MKhiriev/scrapegate/internal/adapter"
	"github.com/MKhiriev/scrapegate/models"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	labelStyle = lipgloss.NewStyle().Faint(true)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// row is one label/value line of a rendered page.
type row struct {
	label string
	value string
}

// renderPage draws title over aligned label/value rows inside a box.
func renderPage(title string, rows ...row) string {
	labelWidth := 0
	for _, r := range rows {
		if w := lipgloss.Width(r.label); w > labelWidth {
			labelWidth = w
		}
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	for _, r := range rows {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-*s", labelWidth, r.label)))
		b.WriteString("  ")
		b.WriteString(r.value)
	}

	return boxStyle.Render(b.String()) + "\n"
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func renderServerInfo(info adapter.ServerInfo, build models.AppBuildInfo) string {
	c := info.Capabilities
	return renderPage("scrapegate",
		row{"server version", orDash(info.Version)},
		row{"client version", build.Version},
		row{"client commit", build.Commit},
		row{"distributed lock", yesNo(c.DistributedLock)},
		row{"activity backup", yesNo(c.Backup)},
		row{"metrics", yesNo(c.Metrics)},
		row{"grpc health", yesNo(c.GRPC)},
		row{"admin api", yesNo(c.Admin)},
	)
}

func renderUser(u models.User) string {
	return renderPage("registered",
		row{"email", u.Email},
		row{"tier", string(u.Tier)},
		row{"status", string(u.Status)},
	)
}

func renderAuthResult(r models.AuthResult) string {
	rows := []row{{"outcome", string(r.Outcome)}}
	if r.Reason != "" {
		rows = append(rows, row{"reason", r.Reason})
	}
	if r.Detail != "" {
		rows = append(rows, row{"detail", r.Detail})
	}
	if r.Tier != "" {
		rows = append(rows, row{"tier", string(r.Tier)})
	}
	if r.Degraded {
		rows = append(rows, row{"degraded", "server store unavailable, admitted without a session"})
	}
	return renderPage("authentication", rows...)
}

func renderActivityOutcome(o models.ActivityOutcome) string {
	rows := []row{
		{"outcome", string(o.Outcome)},
		{"requests today", fmt.Sprintf("%d", o.RequestsToday)},
	}
	if o.Reason != "" {
		rows = append(rows, row{"reason", o.Reason})
	}
	if o.Detail != "" {
		rows = append(rows, row{"detail", o.Detail})
	}
	if o.Ban != nil {
		rows = append(rows, row{"ban reason", o.Ban.Reason}, row{"ban detail", orDash(o.Ban.Detail)})
	}
	return renderPage("activity", rows...)
}

func renderQuota(q models.QuotaStatus) string {
	rows := []row{
		{"tier", orDash(string(q.Tier))},
		{"requests today", fmt.Sprintf("%d / %d", q.RequestsToday, q.DailyLimit)},
		{"allowed", yesNo(q.Allowed)},
	}
	if q.Reason != "" {
		rows = append(rows, row{"reason", q.Reason})
	}
	return renderPage("limits", rows...)
}

func renderStats(s models.UserStats) string {
	rows := []row{
		{"users", fmt.Sprintf("%d", s.TotalUsers)},
		{"banned", fmt.Sprintf("%d", s.BannedUsers)},
		{"activities", fmt.Sprintf("%d", s.TotalActivities)},
		{"activities 24h", fmt.Sprintf("%d", s.RecentActivities24h)},
	}

	tiers := make([]string, 0, len(s.TierCounts))
	for name := range s.TierCounts {
		tiers = append(tiers, string(name))
	}
	sort.Strings(tiers)
	for _, name := range tiers {
		rows = append(rows, row{"tier " + name, fmt.Sprintf("%d", s.TierCounts[models.TierName(name)])})
	}

	return renderPage("user stats", rows...)
}

func renderBanned(b models.BannedUser) string {
	return renderPage("banned",
		row{"email", b.Email},
		row{"reason", b.Reason},
		row{"requests at ban", fmt.Sprintf("%d", b.RequestsTotalAtBan)},
		row{"known ips", orDash(strings.Join(b.KnownIPs, ", "))},
	)
}

func renderBackup(r models.BackupResult) string {
	return renderPage("activity backup",
		row{"object", orDash(r.ObjectName)},
		row{"records", fmt.Sprintf("%d", r.Records)},
		row{"log cleared", yesNo(r.Cleared)},
	)
}

func renderContact(messages []models.ContactMessage) string {
	if len(messages) == 0 {
		return renderPage("contact inbox", row{"messages", "0"})
	}

	var b strings.Builder
	for _, m := range messages {
		b.WriteString(renderPage(m.Timestamp.Format("2006-01-02 15:04")+"  "+m.Name,
			row{"email", m.Email},
			row{"phone", orDash(m.Phone)},
			row{"message", m.Message},
		))
	}
	return b.String()
}
