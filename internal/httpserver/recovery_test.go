package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"essenza-backend/internal/domain"
	"essenza-backend/internal/recovery"
	perfumerepo "essenza-backend/internal/repository/perfume"
)

type stubRunner struct {
	summary recovery.Summary
	err     error
	runs    int
}

func (s *stubRunner) Run(_ context.Context, _ string) (recovery.Summary, error) {
	s.runs++
	return s.summary, s.err
}

type stubPerfumes struct {
	list    []domain.Perfume
	results []domain.Perfume
	total   int
	err     error
	lastIn  perfumerepo.SearchInput
}

func (s *stubPerfumes) List(_ context.Context) ([]domain.Perfume, error) {
	return s.list, s.err
}

func (s *stubPerfumes) GetByID(_ context.Context, id string) (*domain.Perfume, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.list {
		if s.list[i].ID == id {
			return &s.list[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubPerfumes) Search(_ context.Context, in perfumerepo.SearchInput) ([]domain.Perfume, int, error) {
	s.lastIn = in
	return s.results, s.total, s.err
}

type stubCoupons struct {
	coupon    *domain.Coupon
	getErr    error
	redeemErr error
}

func (s *stubCoupons) GetByCode(_ context.Context, _ string) (*domain.Coupon, error) {
	return s.coupon, s.getErr
}

func (s *stubCoupons) Redeem(_ context.Context, _ string, _ time.Time) (*domain.Coupon, error) {
	if s.redeemErr != nil {
		return nil, s.redeemErr
	}
	return s.coupon, nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestRouter(deps Deps) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return buildRouter(testLogger(), nil, deps)
}

func TestRunRecovery_ReturnsSummary(t *testing.T) {
	runner := &stubRunner{summary: recovery.Summary{Success: true, Processed: 3, Skipped: 1, EmailsSent: 2, Errors: 1}}
	router := newTestRouter(Deps{Recovery: runner, AdminAPIKey: "test-key"})

	req := httptest.NewRequest(http.MethodPost, "/internal/recovery/run", nil)
	req.Header.Set("Authorization", "Bearer test-key")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 3, body["processed"])
	assert.EqualValues(t, 2, body["emailsSent"])
	assert.EqualValues(t, 1, body["errors"])
	assert.NotEmpty(t, body["runId"])
	assert.Equal(t, 1, runner.runs)
}

func TestRunRecovery_DetectionFailureIs500(t *testing.T) {
	runner := &stubRunner{err: errors.New("detector rpc failed")}
	router := newTestRouter(Deps{Recovery: runner, AdminAPIKey: "test-key"})

	req := httptest.NewRequest(http.MethodPost, "/internal/recovery/run", nil)
	req.Header.Set("Authorization", "Bearer test-key")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
}

func TestRunRecovery_RequiresAPIKey(t *testing.T) {
	runner := &stubRunner{}
	router := newTestRouter(Deps{Recovery: runner, AdminAPIKey: "test-key"})

	req := httptest.NewRequest(http.MethodPost, "/internal/recovery/run", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, runner.runs)
}

func TestRunRecovery_DisabledWithoutConfiguredKey(t *testing.T) {
	router := newTestRouter(Deps{Recovery: &stubRunner{}})

	req := httptest.NewRequest(http.MethodPost, "/internal/recovery/run", nil)
	req.Header.Set("Authorization", "Bearer anything")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

type stubAttempts struct {
	trail []domain.RecoveryAttempt
	err   error
}

func (s *stubAttempts) AttemptsBySession(_ context.Context, _ string) ([]domain.RecoveryAttempt, error) {
	return s.trail, s.err
}

func TestListAttempts_ReturnsTrail(t *testing.T) {
	attempts := &stubAttempts{trail: []domain.RecoveryAttempt{
		{ID: "a1", CartSessionID: "sess-1", RecoveryType: "first_reminder"},
		{ID: "a2", CartSessionID: "sess-1", RecoveryType: "discount_offer", DiscountOffered: true, DiscountCode: "VOLTA-AB12CD34"},
	}}
	router := newTestRouter(Deps{Attempts: attempts, AdminAPIKey: "test-key"})

	req := httptest.NewRequest(http.MethodGet, "/internal/recovery/attempts/sess-1", nil)
	req.Header.Set("Authorization", "Bearer test-key")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Session  string                   `json:"session"`
		Attempts []domain.RecoveryAttempt `json:"attempts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "sess-1", body.Session)
	require.Len(t, body.Attempts, 2)
	assert.Equal(t, "VOLTA-AB12CD34", body.Attempts[1].DiscountCode)
}

func TestListAttempts_UncontactedSessionIsEmptyList(t *testing.T) {
	router := newTestRouter(Deps{Attempts: &stubAttempts{}, AdminAPIKey: "test-key"})

	req := httptest.NewRequest(http.MethodGet, "/internal/recovery/attempts/sess-unknown", nil)
	req.Header.Set("Authorization", "Bearer test-key")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"attempts":[]`)
}

func TestListAttempts_RequiresAPIKey(t *testing.T) {
	router := newTestRouter(Deps{Attempts: &stubAttempts{}, AdminAPIKey: "test-key"})

	req := httptest.NewRequest(http.MethodGet, "/internal/recovery/attempts/sess-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(Deps{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
