package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sangkumfund/internal/dashboard"
	"sangkumfund/internal/services"
	"sangkumfund/internal/status"
	"sangkumfund/models"

	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeSnapshots struct {
	snap      *dashboard.Snapshot
	refreshed int
	err       error
}

func (f *fakeSnapshots) Current() (*dashboard.Snapshot, error) {
	if f.snap == nil {
		return nil, status.ErrNoSnapshot
	}
	return f.snap, nil
}

func (f *fakeSnapshots) Refresh(ctx context.Context, trigger string) (*dashboard.Snapshot, error) {
	f.refreshed++
	if f.err != nil {
		return nil, f.err
	}
	return f.snap, nil
}

type actionCall struct {
	resource, verb string
	id             models.ID
	reason         string
}

type fakeActions struct {
	calls  []actionCall
	notice dashboard.Notice
	err    error
}

func (f *fakeActions) Do(_ context.Context, resource, verb string, id models.ID, reason string) (dashboard.Notice, error) {
	f.calls = append(f.calls, actionCall{resource, verb, id, reason})
	return f.notice, f.err
}

func (f *fakeActions) MarkAllNotificationsRead(context.Context) (dashboard.Notice, error) {
	f.calls = append(f.calls, actionCall{resource: "notifications", verb: "read-all"})
	return f.notice, f.err
}

type fakeAudit struct {
	action string
	limit  int
}

func (f *fakeAudit) Recent(_ context.Context, action string, limit int) ([]services.AuditEntry, error) {
	f.action, f.limit = action, limit
	return []services.AuditEntry{{ID: "a1", Action: "event.approve"}}, nil
}

func newRequestEvent(method, target string, body io.Reader) (*core.RequestEvent, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()

	e := &core.RequestEvent{}
	e.Request = req
	e.Response = rec
	return e, rec
}

func apiStatus(t *testing.T, err error) int {
	t.Helper()
	var apiErr *router.ApiError
	require.True(t, errors.As(err, &apiErr), "expected ApiError, got %v", err)
	return apiErr.Status
}

func sampleSnapshot() *dashboard.Snapshot {
	return &dashboard.Snapshot{
		Seq:   3,
		Stats: dashboard.Stats{TotalAmountDisplay: "$20.00", PendingEvents: 1},
		Events: []models.Event{
			{ID: "1", Status: models.EventPending},
		},
		Notifications: []models.Notification{
			{ID: "n1", Read: false, Type: models.NotificationSystem},
			{ID: "n2", Read: true, Type: models.NotificationSystem},
			{ID: "n3", Read: true, Type: models.NotificationEvent},
		},
	}
}

func TestDashboardHandler_GetDashboard(t *testing.T) {
	h := NewDashboardHandler(&fakeSnapshots{snap: sampleSnapshot()}, &fakeActions{}, &fakeAudit{})
	e, rec := newRequestEvent(http.MethodGet, "/api/v1/dashboard", nil)

	require.NoError(t, h.GetDashboard(e))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(3), body["seq"])
	assert.Equal(t, "$20.00", body["stats"].(map[string]any)["totalAmountDisplay"])
	assert.Equal(t, float64(3), body["counts"].(map[string]any)["notifications"])
	assert.NotContains(t, body, "events")
}

func TestDashboardHandler_GetDashboardBeforeFirstRefresh(t *testing.T) {
	h := NewDashboardHandler(&fakeSnapshots{}, &fakeActions{}, &fakeAudit{})
	e, rec := newRequestEvent(http.MethodGet, "/api/v1/dashboard", nil)

	require.NoError(t, h.GetDashboard(e))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestDashboardHandler_GetTabPendingNotifications(t *testing.T) {
	h := NewDashboardHandler(&fakeSnapshots{snap: sampleSnapshot()}, &fakeActions{}, &fakeAudit{})
	e, rec := newRequestEvent(http.MethodGet, "/api/v1/dashboard/tabs/notifications?filter=pending", nil)
	e.Request.SetPathValue("tab", "notifications")

	require.NoError(t, h.GetTab(e))
	require.Equal(t, http.StatusOK, rec.Code)

	var view dashboard.TabView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, 1, view.Counts["pending"])
	require.Len(t, view.Notifications, 1)
	assert.Equal(t, models.ID("n1"), view.Notifications[0].ID)
}

func TestDashboardHandler_GetTabByType(t *testing.T) {
	h := NewDashboardHandler(&fakeSnapshots{snap: sampleSnapshot()}, &fakeActions{}, &fakeAudit{})
	e, rec := newRequestEvent(http.MethodGet, "/api/v1/dashboard/tabs/notifications?filter=read&type=event", nil)
	e.Request.SetPathValue("tab", "notifications")

	require.NoError(t, h.GetTab(e))

	var view dashboard.TabView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Len(t, view.Notifications, 1)
	assert.Equal(t, models.ID("n3"), view.Notifications[0].ID)
}

func TestDashboardHandler_GetTabErrors(t *testing.T) {
	h := NewDashboardHandler(&fakeSnapshots{snap: sampleSnapshot()}, &fakeActions{}, &fakeAudit{})

	e, _ := newRequestEvent(http.MethodGet, "/api/v1/dashboard/tabs/settings", nil)
	e.Request.SetPathValue("tab", "settings")
	assert.Equal(t, http.StatusNotFound, apiStatus(t, h.GetTab(e)))

	e, _ = newRequestEvent(http.MethodGet, "/api/v1/dashboard/tabs/notifications?filter=archived", nil)
	e.Request.SetPathValue("tab", "notifications")
	assert.Equal(t, http.StatusBadRequest, apiStatus(t, h.GetTab(e)))
}

func TestDashboardHandler_Refresh(t *testing.T) {
	snaps := &fakeSnapshots{snap: sampleSnapshot()}
	h := NewDashboardHandler(snaps, &fakeActions{}, &fakeAudit{})

	e, rec := newRequestEvent(http.MethodPost, "/api/v1/dashboard/refresh", nil)
	require.NoError(t, h.Refresh(e))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, snaps.refreshed)

	snaps.err = context.Canceled
	e, _ = newRequestEvent(http.MethodPost, "/api/v1/dashboard/refresh", nil)
	assert.Equal(t, http.StatusServiceUnavailable, apiStatus(t, h.Refresh(e)))
}

func TestDashboardHandler_ActPassesReason(t *testing.T) {
	actions := &fakeActions{notice: dashboard.Notice{Action: "event.reject", Level: dashboard.LevelSuccess, Message: "Event rejected."}}
	h := NewDashboardHandler(&fakeSnapshots{}, actions, &fakeAudit{})

	e, rec := newRequestEvent(http.MethodPost, "/api/v1/dashboard/events/12/reject", strings.NewReader(`{"reason": "duplicate"}`))
	e.Request.SetPathValue("id", "12")
	e.Request.SetPathValue("action", "reject")

	require.NoError(t, h.Act("events")(e))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []actionCall{{"events", "reject", "12", "duplicate"}}, actions.calls)
	assert.Contains(t, rec.Body.String(), "Event rejected.")
}

func TestDashboardHandler_ActStatusCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"validation", fmt.Errorf("event.reject: %w", status.ErrMissingReason), http.StatusBadRequest},
		{"backend", errors.New("user.block: 500"), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actions := &fakeActions{err: tt.err, notice: dashboard.Notice{Level: dashboard.LevelError, Message: "nope"}}
			h := NewDashboardHandler(&fakeSnapshots{}, actions, &fakeAudit{})

			e, rec := newRequestEvent(http.MethodPost, "/api/v1/dashboard/users/3/block", nil)
			e.Request.SetPathValue("id", "3")
			e.Request.SetPathValue("action", "block")

			require.NoError(t, h.Act("users")(e))
			assert.Equal(t, tt.code, rec.Code)
			assert.Contains(t, rec.Body.String(), `"level":"error"`)
		})
	}

	actions := &fakeActions{err: fmt.Errorf("%w: users archive", status.ErrUnknownAction)}
	h := NewDashboardHandler(&fakeSnapshots{}, actions, &fakeAudit{})
	e, _ := newRequestEvent(http.MethodPost, "/api/v1/dashboard/users/3/archive", nil)
	assert.Equal(t, http.StatusNotFound, apiStatus(t, h.Act("users")(e)))
}

func TestDashboardHandler_MarkAllRead(t *testing.T) {
	actions := &fakeActions{notice: dashboard.Notice{Level: dashboard.LevelSuccess}}
	h := NewDashboardHandler(&fakeSnapshots{}, actions, &fakeAudit{})

	e, rec := newRequestEvent(http.MethodPost, "/api/v1/dashboard/notifications/read-all", nil)
	require.NoError(t, h.MarkAllRead(e))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "read-all", actions.calls[0].verb)
}

func TestDashboardHandler_GetAudit(t *testing.T) {
	audit := &fakeAudit{}
	h := NewDashboardHandler(&fakeSnapshots{}, &fakeActions{}, audit)

	e, rec := newRequestEvent(http.MethodGet, "/api/v1/dashboard/audit?action=event.approve&limit=5", nil)
	require.NoError(t, h.GetAudit(e))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "event.approve", audit.action)
	assert.Equal(t, 5, audit.limit)
	assert.Contains(t, rec.Body.String(), `"id":"a1"`)
}

func TestRequireConsoleKey(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	guard := RequireConsoleKey(string(hash))

	e, _ := newRequestEvent(http.MethodGet, "/api/v1/dashboard", nil)
	assert.Equal(t, http.StatusUnauthorized, apiStatus(t, guard(e)))

	e, _ = newRequestEvent(http.MethodGet, "/api/v1/dashboard", nil)
	e.Request.Header.Set(ConsoleKeyHeader, "wrong")
	assert.Equal(t, http.StatusUnauthorized, apiStatus(t, guard(e)))

	e, _ = newRequestEvent(http.MethodGet, "/api/v1/dashboard", nil)
	e.Request.Header.Set(ConsoleKeyHeader, "s3cret")
	assert.NoError(t, guard(e))
}

func TestRequireConsoleKey_DisabledWithoutHash(t *testing.T) {
	e, _ := newRequestEvent(http.MethodGet, "/api/v1/dashboard", nil)
	assert.NoError(t, RequireConsoleKey("")(e))
}
