package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/scrapegate/internal/config"
	"github.com/MKhiriev/scrapegate/internal/logger"
	"github.com/MKhiriev/scrapegate/internal/service"
	"github.com/MKhiriev/scrapegate/internal/utils"
	"github.com/MKhiriev/scrapegate/models"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────
// Function-field service mocks
// ─────────────────────────────────────────────

// mockAccessService implements service.AccessService for unit tests.
// Each method field can be overridden per test case.
type mockAccessService struct {
	registerFn     func(ctx context.Context, email, ip, deviceID string, tier models.TierName) (models.User, error)
	authenticateFn func(ctx context.Context, email, ip, deviceID string) (models.AuthResult, error)
	logActivityFn  func(ctx context.Context, record models.ActivityRecord) (models.ActivityOutcome, error)
	checkLimitsFn  func(ctx context.Context, email string) (models.QuotaStatus, error)
	banFn          func(ctx context.Context, email, reason, adminNotes string) (models.BannedUser, error)
	statsFn        func(ctx context.Context) (models.UserStats, error)
}

func (m *mockAccessService) Register(ctx context.Context, email, ip, deviceID string, tier models.TierName) (models.User, error) {
	return m.registerFn(ctx, email, ip, deviceID, tier)
}

func (m *mockAccessService) Authenticate(ctx context.Context, email, ip, deviceID string) (models.AuthResult, error) {
	return m.authenticateFn(ctx, email, ip, deviceID)
}

func (m *mockAccessService) LogActivity(ctx context.Context, record models.ActivityRecord) (models.ActivityOutcome, error) {
	return m.logActivityFn(ctx, record)
}

func (m *mockAccessService) CheckLimits(ctx context.Context, email string) (models.QuotaStatus, error) {
	return m.checkLimitsFn(ctx, email)
}

func (m *mockAccessService) Ban(ctx context.Context, email, reason, adminNotes string) (models.BannedUser, error) {
	return m.banFn(ctx, email, reason, adminNotes)
}

func (m *mockAccessService) GetUserStats(ctx context.Context) (models.UserStats, error) {
	return m.statsFn(ctx)
}

type mockAppInfoService struct {
	version      string
	capabilities config.Capabilities
}

func (m *mockAppInfoService) GetAppVersion(_ context.Context) string {
	return m.version
}

func (m *mockAppInfoService) GetCapabilities(_ context.Context) config.Capabilities {
	return m.capabilities
}

type mockBackupService struct {
	enabled  bool
	backupFn func(ctx context.Context) (models.BackupResult, error)
}

func (m *mockBackupService) Enabled() bool { return m.enabled }

func (m *mockBackupService) Backup(ctx context.Context) (models.BackupResult, error) {
	return m.backupFn(ctx)
}

type mockContactService struct {
	submitFn func(ctx context.Context, msg models.ContactMessage) error
	listFn   func(ctx context.Context) ([]models.ContactMessage, error)
}

func (m *mockContactService) Submit(ctx context.Context, msg models.ContactMessage) error {
	return m.submitFn(ctx, msg)
}

func (m *mockContactService) List(ctx context.Context) ([]models.ContactMessage, error) {
	return m.listFn(ctx)
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

const (
	testSignKey  = "handler-test-key"
	testIssuer   = "scrapegate-test"
	testAdminKey = "let-me-in"
)

var (
	adminHashOnce sync.Once
	adminHash     string
	adminHashErr  error
)

// testConfig returns a config with a real token key and a bcrypt hash of
// testAdminKey, computed once per test binary.
func testConfig(t *testing.T) config.StructuredConfig {
	t.Helper()
	adminHashOnce.Do(func() {
		adminHash, adminHashErr = utils.HashAdminKey(testAdminKey)
	})
	require.NoError(t, adminHashErr)

	return config.StructuredConfig{
		App: config.App{
			TokenSignKey:  testSignKey,
			TokenIssuer:   testIssuer,
			TokenDuration: time.Hour,
			AdminKeyHash:  adminHash,
			Version:       "test",
		},
	}
}

// newTestServices wires the given mocks together with a real token service.
func newTestServices(t *testing.T, access service.AccessService) *service.Services {
	t.Helper()
	return &service.Services{
		AccessService:  access,
		TokenService:   service.NewTokenService(testConfig(t).App),
		AppInfoService: &mockAppInfoService{version: "test"},
		BackupService:  &mockBackupService{},
		ContactService: &mockContactService{},
	}
}

// newHandlerWithServices builds a Handler around svcs with nil metrics.
func newHandlerWithServices(t *testing.T, svcs *service.Services) *Handler {
	t.Helper()
	return NewHandler(svcs, nil, testConfig(t), logger.Nop())
}

// newHandlerWithAccess builds a Handler with the given AccessService mock.
func newHandlerWithAccess(t *testing.T, access service.AccessService) *Handler {
	t.Helper()
	return newHandlerWithServices(t, newTestServices(t, access))
}

// bearerFor issues a real session token for email/device.
func bearerFor(t *testing.T, email, deviceID string) string {
	t.Helper()
	token, err := service.NewTokenService(testConfig(t).App).CreateToken(context.Background(), email, "sess-1", deviceID)
	require.NoError(t, err)
	return "Bearer " + token.String()
}

// withSession returns r carrying the session claims the auth middleware
// would have stored.
func withSession(r *http.Request, email, deviceID string) *http.Request {
	ctx := utils.WithSession(r.Context(), utils.SessionClaims{Email: email, SessionID: "sess-1", DeviceID: deviceID})
	return r.WithContext(ctx)
}

// jsonBody serialises v to a request body reader.
func jsonBody(t *testing.T, v any) *strings.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return strings.NewReader(string(b))
}

// decodeError reads a utils.ErrorResponse from rec.
func decodeError(t *testing.T, rec *httptest.ResponseRecorder) utils.ErrorResponse {
	t.Helper()
	var resp utils.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}
