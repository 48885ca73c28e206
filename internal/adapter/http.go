package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/scrapegate/internal/logger"
	"github.com/MKhiriev/scrapegate/internal/utils"
	"github.com/MKhiriev/scrapegate/models"
	"github.com/go-resty/resty/v2"
)

const adminKeyHeader = "X-Admin-Key"

type httpServerAdapter struct {
	client *utils.HTTPClient

	mu       sync.RWMutex
	token    string
	adminKey string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of [ServerAdapter].
// It normalises and validates address and configures the underlying HTTP
// client with the resolved base URL and request timeout.
//
// Returns an error if address is empty or cannot be parsed as a valid URL.
func NewHTTPServerAdapter(address string, timeout time.Duration, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(address)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	return &httpServerAdapter{client: utils.NewHTTPClient(baseURL, timeout), logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyAddress
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [ServerAdapter]. It stores token (whitespace-trimmed) for
// use in the Authorization header of all subsequent session requests.
func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

// Token implements [ServerAdapter].
func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

func (h *httpServerAdapter) SetAdminKey(key string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.adminKey = key
}

func (h *httpServerAdapter) session(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetAuthToken(token)
	}
	return req
}

func (h *httpServerAdapter) admin(ctx context.Context) *resty.Request {
	h.mu.RLock()
	key := h.adminKey
	h.mu.RUnlock()
	return h.client.R().SetContext(ctx).SetHeader(adminKeyHeader, key)
}

func (h *httpServerAdapter) Version(ctx context.Context) (ServerInfo, error) {
	var info ServerInfo

	resp, err := h.client.R().
		SetContext(ctx).
		SetResult(&info).
		Get("/api/version")
	if err != nil {
		return ServerInfo{}, fmt.Errorf("version request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return ServerInfo{}, err
	}

	return info, nil
}

func (h *httpServerAdapter) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	var user models.User

	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&user).
		Post("/api/user/register")
	if err != nil {
		return models.User{}, fmt.Errorf("register request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.User{}, err
	}

	return user, nil
}

// Authenticate implements [ServerAdapter]. On an admitted result with a
// session the bearer token is extracted from the Authorization response
// header and stored via SetToken.
func (h *httpServerAdapter) Authenticate(ctx context.Context, req models.AuthenticateRequest) (models.AuthResult, error) {
	var result models.AuthResult

	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/api/auth/authenticate")
	if err != nil {
		return models.AuthResult{}, fmt.Errorf("authenticate request: %w", err)
	}

	// denials carry an AuthResult body with a non-2xx status
	if jsonErr := json.Unmarshal(resp.Body(), &result); jsonErr != nil || result.Outcome == "" {
		if err = mapHTTPError(resp); err != nil {
			return models.AuthResult{}, err
		}
		return models.AuthResult{}, fmt.Errorf("authenticate decode response: %w", jsonErr)
	}

	if header := resp.Header().Get("Authorization"); header != "" {
		token, err := utils.ParseBearerToken(header)
		if err != nil {
			return models.AuthResult{}, fmt.Errorf("authenticate parse bearer token: %w", err)
		}
		h.SetToken(token)
	}

	h.logger.Debug().Str("outcome", string(result.Outcome)).Str("reason", result.Reason).Msg("authentication answered")
	return result, nil
}

func (h *httpServerAdapter) LogActivity(ctx context.Context, req models.ActivityRequest) (models.ActivityOutcome, error) {
	var outcome models.ActivityOutcome

	resp, err := h.session(ctx).
		SetBody(req).
		Post("/api/activity")
	if err != nil {
		return models.ActivityOutcome{}, fmt.Errorf("activity request: %w", err)
	}

	if jsonErr := json.Unmarshal(resp.Body(), &outcome); jsonErr != nil || outcome.Outcome == "" {
		if err = mapHTTPError(resp); err != nil {
			return models.ActivityOutcome{}, err
		}
		return models.ActivityOutcome{}, fmt.Errorf("activity decode response: %w", jsonErr)
	}

	return outcome, nil
}

func (h *httpServerAdapter) CheckLimits(ctx context.Context) (models.QuotaStatus, error) {
	var status models.QuotaStatus

	resp, err := h.session(ctx).
		SetResult(&status).
		Get("/api/limits")
	if err != nil {
		return models.QuotaStatus{}, fmt.Errorf("limits request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.QuotaStatus{}, err
	}

	return status, nil
}

func (h *httpServerAdapter) SubmitContact(ctx context.Context, req models.ContactRequest) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/api/contact")
	if err != nil {
		return fmt.Errorf("contact request: %w", err)
	}
	return mapHTTPError(resp)
}

func (h *httpServerAdapter) Ban(ctx context.Context, req models.BanRequest) (models.BannedUser, error) {
	var banned models.BannedUser

	resp, err := h.admin(ctx).
		SetBody(req).
		SetResult(&banned).
		Post("/api/admin/ban")
	if err != nil {
		return models.BannedUser{}, fmt.Errorf("ban request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.BannedUser{}, err
	}

	return banned, nil
}

func (h *httpServerAdapter) Stats(ctx context.Context) (models.UserStats, error) {
	var stats models.UserStats

	resp, err := h.admin(ctx).
		SetResult(&stats).
		Get("/api/admin/stats")
	if err != nil {
		return models.UserStats{}, fmt.Errorf("stats request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.UserStats{}, err
	}

	return stats, nil
}

func (h *httpServerAdapter) Backup(ctx context.Context) (models.BackupResult, error) {
	var result models.BackupResult

	resp, err := h.admin(ctx).
		SetResult(&result).
		Post("/api/admin/backup")
	if err != nil {
		return models.BackupResult{}, fmt.Errorf("backup request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.BackupResult{}, err
	}

	return result, nil
}

func (h *httpServerAdapter) ListContact(ctx context.Context) ([]models.ContactMessage, error) {
	var messages []models.ContactMessage

	resp, err := h.admin(ctx).
		SetResult(&messages).
		Get("/api/admin/contact")
	if err != nil {
		return nil, fmt.Errorf("contact list request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return messages, nil
}
