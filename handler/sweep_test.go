package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safeops/YASE/domain/entity"
	"github.com/safeops/YASE/domain/repository"
	"github.com/safeops/YASE/handler"
	"github.com/safeops/YASE/sweeper"
)

// ------------------------
// Mock repositories
// ------------------------
type mockEscalatableRepo struct {
	data map[string]*entity.Escalatable
}

func (m *mockEscalatableRepo) ListPending(_ context.Context, tenant string) ([]entity.Escalatable, error) {
	var out []entity.Escalatable
	for _, e := range m.data {
		if e.Tenant == tenant && e.Pending() {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *mockEscalatableRepo) SaveEscalatable(_ context.Context, e *entity.Escalatable) error {
	m.data[e.ID] = e
	return nil
}

func (m *mockEscalatableRepo) ConditionalUpdate(_ context.Context, id string, expectedLevel int, change entity.EscalationChange) (bool, error) {
	e, ok := m.data[id]
	if !ok {
		return false, fmt.Errorf("escalatable not found: %s", id)
	}
	if e.EscalationLevel != expectedLevel {
		return false, nil
	}
	e.EscalationLevel = change.NewLevel
	if change.WarningOnly {
		e.WarningSentAt = change.WarningSentAt
	}
	return true, nil
}

type mockThresholdRepo struct{}

func (m *mockThresholdRepo) ThresholdOverride(_ context.Context, _ string, _ entity.Bucket) (*entity.SLAThresholdConfig, error) {
	return nil, nil
}

type mockTenantRepo struct{}

func (m *mockTenantRepo) Tenants(_ context.Context) ([]entity.Tenant, error) {
	return []entity.Tenant{{ID: "acme", Name: "Acme"}}, nil
}

func (m *mockTenantRepo) TenantByID(_ context.Context, id string) (*entity.Tenant, error) {
	return &entity.Tenant{ID: id, Name: "Acme"}, nil
}

type mockDispatcher struct {
	events []entity.EscalationEvent
}

func (m *mockDispatcher) Send(_ context.Context, event entity.EscalationEvent) error {
	m.events = append(m.events, event)
	return nil
}

func newTestRouter(t *testing.T, escalatables ...*entity.Escalatable) (http.Handler, *mockDispatcher) {
	t.Helper()
	escRepo := &mockEscalatableRepo{data: map[string]*entity.Escalatable{}}
	for _, e := range escalatables {
		require.NoError(t, escRepo.SaveEscalatable(context.Background(), e))
	}
	thrRepo := &mockThresholdRepo{}
	tenRepo := &mockTenantRepo{}
	d := &mockDispatcher{}
	repo := repository.NewRepository(escRepo, thrRepo, tenRepo)
	sw := sweeper.NewSweeper(repo, sweeper.NewResolver(thrRepo), d, 1)
	return handler.NewSweepHandler(sw).Router(), d
}

func TestHealthz(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestSweepEndpointReturnsSummary(t *testing.T) {
	// 重大度5の既定閾値(2h/4h/8h)を全て超過している
	e, err := entity.NewEscalatable("inc-1", "acme", entity.KindIncidentScreening, 5, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	router, d := newTestRouter(t, e)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sweep", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var summary sweeper.Summary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&summary))
	assert.NotEmpty(t, summary.SweepID)
	assert.Equal(t, 1, summary.EntitiesProcessed)
	assert.Equal(t, 1, summary.EscalationsSent)
	assert.Equal(t, 0, summary.WarningsSent)
	assert.Equal(t, 0, summary.Errors)

	require.Len(t, d.events, 1)
	assert.Equal(t, 2, d.events[0].NewLevel)
}

func TestSweepEndpointEmptyStore(t *testing.T) {
	router, d := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sweep", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var summary sweeper.Summary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&summary))
	assert.Equal(t, 0, summary.EntitiesProcessed)
	assert.Empty(t, d.events)
}
