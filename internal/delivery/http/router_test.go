package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-therapy-platform/cmd/bootstrap"
	"go-therapy-platform/config"
	"go-therapy-platform/internal/analysis/sentiment"
	"go-therapy-platform/internal/domain/entity"
	"go-therapy-platform/internal/infrastructure/cache"
	"go-therapy-platform/internal/infrastructure/llm"
	"go-therapy-platform/internal/testutil"
	"go-therapy-platform/pkg/metrics"

	"github.com/cloudwego/eino/components/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

type server struct {
	t       *testing.T
	db      *gorm.DB
	handler http.Handler
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Port: "0", Env: "test"},
		JWT: config.JWTConfig{
			Secret:        "test-secret",
			AccessExpiry:  time.Minute,
			RefreshExpiry: time.Hour,
		},
		Security: config.SecurityConfig{TrustedOrigins: []string{"http://frontend.test"}},
		LLM: config.LLMConfig{
			Model:       "openai/gpt-4o",
			Temperature: 0.7,
			MaxTokens:   300,
			Timeout:     5 * time.Second,
			Title:       "Assistente Terapeuta",
		},
		RateLimit: config.RateLimitConfig{RequestsPerSecond: 100, Burst: 100},
	}
}

func newServer(t *testing.T, chatModel model.BaseChatModel) *server {
	t.Helper()

	db := testutil.NewDB(t)
	handler := bootstrap.NewHTTPHandler(bootstrap.Deps{
		Config:     testConfig(),
		DB:         db,
		TokenStore: cache.NewMemoryTokenStore(time.Minute),
		ChatModel:  chatModel,
		Metrics:    metrics.NewMetrics("test"),
		Log:        testutil.NewLogger(),
	})
	return &server{t: t, db: db, handler: handler}
}

type requestOption func(*http.Request)

func withToken(token string) requestOption {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func withCookies(cookies ...*http.Cookie) requestOption {
	return func(r *http.Request) {
		for _, c := range cookies {
			r.AddCookie(c)
		}
	}
}

func withHeader(key, value string) requestOption {
	return func(r *http.Request) { r.Header.Set(key, value) }
}

func (s *server) do(method, path string, body interface{}, opts ...requestOption) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, opt := range opts {
		opt(req)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

// login returns the access token and the cookies set by the response.
func (s *server) login(email string) (string, []*http.Cookie) {
	s.t.Helper()

	rec := s.do(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": testutil.Password,
	})
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())

	var tokens struct {
		AccessToken string `json:"access_token"`
	}
	decode(s.t, rec, &tokens)
	require.NotEmpty(s.t, tokens.AccessToken)
	return tokens.AccessToken, rec.Result().Cookies()
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestHealthAndMetrics(t *testing.T) {
	s := newServer(t, nil)

	rec := s.do(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test_http_requests_total")
}

func TestProtectedRoutesRequireAuthentication(t *testing.T) {
	s := newServer(t, nil)

	for _, path := range []string{"/api/v1/profile", "/api/v1/patients", "/api/v1/sessions", "/api/v1/ai/history"} {
		rec := s.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}

	rec := s.do(http.MethodGet, "/api/v1/profile", nil, withToken("not-a-jwt"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterPatientCreatesProfile(t *testing.T) {
	s := newServer(t, nil)

	rec := s.do(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email":      "Ana@Example.com",
		"password":   "password123",
		"first_name": "Ana",
		"last_name":  "Souza",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var user struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	decode(t, rec, &user)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, "patient", user.Role)

	var profiles int64
	require.NoError(t, s.db.Model(&entity.PatientProfile{}).Count(&profiles).Error)
	assert.Equal(t, int64(1), profiles)

	rec = s.do(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email":      "ana@example.com",
		"password":   "password123",
		"first_name": "Ana",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegisterValidationErrors(t *testing.T) {
	s := newServer(t, nil)

	rec := s.do(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email":    "not-an-email",
		"password": "short",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var fields map[string]string
	env := decode(t, rec, nil)
	require.NoError(t, json.Unmarshal(env.Error, &fields))
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
	assert.Contains(t, fields, "first_name")
}

func TestInactiveUserCannotLogin(t *testing.T) {
	s := newServer(t, nil)
	user := testutil.CreateUser(t, s.db, "inactive@example.com", entity.RoleTherapist)
	require.NoError(t, s.db.Model(user).Update("is_active", false).Error)

	rec := s.do(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "inactive@example.com",
		"password": testutil.Password,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTherapistCannotReadAnotherTherapistsPatient(t *testing.T) {
	s := newServer(t, nil)
	testutil.CreateUser(t, s.db, "t1@example.com", entity.RoleTherapist)
	other := testutil.CreateUser(t, s.db, "t2@example.com", entity.RoleTherapist)
	patient, _ := testutil.CreatePatient(t, s.db, "p@example.com", other)

	token, _ := s.login("t1@example.com")

	rec := s.do(http.MethodGet, "/api/v1/patients/"+patient.ID.String(), nil, withToken(token))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/patients/not-a-uuid", nil, withToken(token))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	otherToken, _ := s.login("t2@example.com")
	rec = s.do(http.MethodGet, "/api/v1/patients/"+patient.ID.String(), nil, withToken(otherToken))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCapabilityGates(t *testing.T) {
	s := newServer(t, nil)
	testutil.CreatePatient(t, s.db, "p@example.com", nil)
	token, _ := s.login("p@example.com")

	for _, tc := range []struct {
		method, path string
	}{
		{http.MethodGet, "/api/v1/admin/audit-logs"},
		{http.MethodGet, "/api/v1/users"},
		{http.MethodGet, "/api/v1/patients/search?q=a"},
		{http.MethodGet, "/api/v1/dashboard/therapist"},
		{http.MethodPost, "/api/v1/reports"},
		{http.MethodPost, "/api/v1/notifications"},
	} {
		rec := s.do(tc.method, tc.path, map[string]string{}, withToken(token))
		assert.Equal(t, http.StatusForbidden, rec.Code, tc.path)
	}
}

func TestPatientWithoutTherapistCannotScheduleSession(t *testing.T) {
	s := newServer(t, nil)
	testutil.CreatePatient(t, s.db, "p@example.com", nil)
	token, _ := s.login("p@example.com")

	rec := s.do(http.MethodPost, "/api/v1/sessions", map[string]interface{}{
		"scheduled_at":     time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339),
		"duration_minutes": 50,
	}, withToken(token))
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	var fields map[string]string
	env := decode(t, rec, nil)
	require.NoError(t, json.Unmarshal(env.Error, &fields))
	assert.Contains(t, fields, "therapist")

	var sessions int64
	require.NoError(t, s.db.Model(&entity.Session{}).Count(&sessions).Error)
	assert.Zero(t, sessions)
}

func TestSessionScheduledNotifiesBothParties(t *testing.T) {
	s := newServer(t, nil)
	therapist := testutil.CreateUser(t, s.db, "t@example.com", entity.RoleTherapist)
	patient, _ := testutil.CreatePatient(t, s.db, "p@example.com", therapist)
	token, _ := s.login("p@example.com")

	rec := s.do(http.MethodPost, "/api/v1/sessions", map[string]interface{}{
		"scheduled_at":     time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339),
		"duration_minutes": 50,
	}, withToken(token))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var notifications []entity.Notification
	require.NoError(t, s.db.Order("subject").Find(&notifications).Error)
	require.Len(t, notifications, 2)
	recipients := []string{notifications[0].UserID.String(), notifications[1].UserID.String()}
	assert.ElementsMatch(t, []string{therapist.ID.String(), patient.ID.String()}, recipients)
}

func TestChatFallsBackWhenProviderFails(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer provider.Close()

	cfg := testConfig().LLM
	cfg.APIKey = "test-key"
	cfg.BaseURL = provider.URL
	s := newServer(t, llm.NewOpenRouterChatModel(cfg, provider.Client()))

	testutil.CreatePatient(t, s.db, "p@example.com", nil)
	token, _ := s.login("p@example.com")

	rec := s.do(http.MethodPost, "/api/v1/ai/respond", map[string]string{"message": "Oi, tudo bem?"}, withToken(token))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var reply struct {
		Reply     string `json:"reply"`
		Sentiment string `json:"sentiment"`
		Category  string `json:"category"`
		Intensity string `json:"intensity"`
	}
	decode(t, rec, &reply)
	assert.Equal(t, sentiment.ReplyGreeting, reply.Reply)
	assert.Equal(t, "Positivo", reply.Sentiment)
	assert.Equal(t, "Bem-estar", reply.Category)
	assert.Equal(t, "Baixa", reply.Intensity)

	var conversations int64
	require.NoError(t, s.db.Model(&entity.Conversation{}).Count(&conversations).Error)
	assert.Equal(t, int64(1), conversations)

	rec = s.do(http.MethodPost, "/api/v1/ai/respond", map[string]string{"message": ""}, withToken(token))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCookieAuthRequiresCSRFToken(t *testing.T) {
	s := newServer(t, nil)
	testutil.CreatePatient(t, s.db, "p@example.com", nil)

	_, cookies := s.login("p@example.com")
	access := findCookie(cookies, "access_token")
	require.NotNil(t, access)
	assert.True(t, access.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, access.SameSite)

	// Safe methods pass with the cookie alone.
	rec := s.do(http.MethodGet, "/api/v1/profile", nil, withCookies(access))
	assert.Equal(t, http.StatusOK, rec.Code)

	body := map[string]string{"message": "estou bem"}
	rec = s.do(http.MethodPost, "/api/v1/ai/respond", body, withCookies(access))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/auth/csrf", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	csrf := findCookie(rec.Result().Cookies(), "csrftoken")
	require.NotNil(t, csrf)
	assert.False(t, csrf.HttpOnly)

	rec = s.do(http.MethodPost, "/api/v1/ai/respond", body, withCookies(access, csrf), withHeader("X-CSRFToken", "wrong"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/ai/respond", body,
		withCookies(access, csrf),
		withHeader("X-CSRFToken", csrf.Value),
		withHeader("Origin", "http://evil.test"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/ai/respond", body,
		withCookies(access, csrf),
		withHeader("X-CSRFToken", csrf.Value),
		withHeader("Origin", "http://frontend.test"))
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestLogoutRevokesAccessToken(t *testing.T) {
	s := newServer(t, nil)
	testutil.CreateUser(t, s.db, "t@example.com", entity.RoleTherapist)
	token, _ := s.login("t@example.com")

	rec := s.do(http.MethodPost, "/api/v1/auth/logout", nil, withToken(token))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/v1/auth/me", nil, withToken(token))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCORSPreflightForTrustedOrigin(t *testing.T) {
	s := newServer(t, nil)

	rec := s.do(http.MethodOptions, "/api/v1/sessions", nil, withHeader("Origin", "http://frontend.test"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://frontend.test", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "X-CSRFToken")
}
