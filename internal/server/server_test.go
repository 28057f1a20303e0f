package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"clubdesk/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }
func (p stubPinger) Ping(context.Context) error        { return p.err }

type stubMailer struct {
	to  string
	err error
}

func (m *stubMailer) Send(_ context.Context, to, _, _, _ string) error {
	m.to = to
	return m.err
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	return NewRouter(Handlers{
		Health:    Health(stubPinger{}, stubPinger{}),
		TestEmail: TestEmail(&stubMailer{}),
	}, testSecret, nil)
}

func bearer(t *testing.T, role string, perms ...string) string {
	t.Helper()
	token, err := auth.GenerateAccessToken(auth.Subject{
		UserID:      "u1",
		ClubID:      "club-1",
		Email:       "u1@example.com",
		Role:        role,
		Permissions: perms,
	}, testSecret)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","database":"ok","queue":"ok"}`, w.Body.String())
}

func TestRouter_Metrics(t *testing.T) {
	router := newTestRouter(t)
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "clubdesk_http_requests_total")
}

func TestRouter_ProtectedRequiresToken(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/me", "/courts", "/wallet", "/admin/users", "/lessons/coaches"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestRouter_AdminRoutesRejectMembers(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	req.Header.Set("Authorization", bearer(t, auth.RoleMember))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_LessonAreaNeedsPermission(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/lessons/coaches", nil)
	req.Header.Set("Authorization", bearer(t, auth.RoleMember))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_AdminTestEmail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := &stubMailer{}
	router := NewRouter(Handlers{
		Health:    Health(stubPinger{}, stubPinger{}),
		TestEmail: TestEmail(m),
	}, testSecret, nil)

	req := httptest.NewRequest(http.MethodGet, "/admin/test-email?email=ops@example.com", nil)
	req.Header.Set("Authorization", bearer(t, auth.RoleAdmin))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ops@example.com", m.to)
}

func TestHealth_DatabaseDown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", Health(stubPinger{err: errors.New("refused")}, stubPinger{}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"unavailable"`)
}

func TestHealth_QueueDownIsDegraded(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", Health(stubPinger{}, stubPinger{err: errors.New("refused")}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"degraded"`)
}

func TestTestEmail_MissingAddress(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/test-email", TestEmail(&stubMailer{}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test-email", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTestEmail_QueueFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/test-email", TestEmail(&stubMailer{err: errors.New("redis down")}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test-email?email=a@b.c", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
