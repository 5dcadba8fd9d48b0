package dashboard

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"sangkumfund/internal/api"
	"sangkumfund/internal/apiclient"
	"sangkumfund/internal/status"
	"sangkumfund/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryAudit struct {
	mu      sync.Mutex
	notices []Notice
	err     error
}

func (m *memoryAudit) Record(_ context.Context, n Notice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notices = append(m.notices, n)
	return m.err
}

type countingRefresher struct {
	calls atomic.Int32
}

func (r *countingRefresher) Refresh(context.Context, string) (*Snapshot, error) {
	r.calls.Add(1)
	return &Snapshot{}, nil
}

type backendCall struct {
	Method, Path, Body string
}

func newActionsBackend(t *testing.T, handler http.HandlerFunc) (*Actions, *countingRefresher, *memoryAudit, *[]backendCall) {
	t.Helper()
	var mu sync.Mutex
	calls := []backendCall{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		calls = append(calls, backendCall{r.Method, r.URL.Path, string(body)})
		mu.Unlock()
		if handler != nil {
			handler(w, r)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	client := apiclient.New(apiclient.Config{BaseURL: srv.URL}, nil)
	refresher := &countingRefresher{}
	audit := &memoryAudit{}
	actions := NewActions(api.NewServices(client, nil), refresher, audit, nil)
	actions.now = func() time.Time { return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC) }
	return actions, refresher, audit, &calls
}

func TestActions_SuccessRefreshesAndAudits(t *testing.T) {
	actions, refresher, audit, calls := newActionsBackend(t, nil)

	n, err := actions.ApproveEvent(context.Background(), "12")
	require.NoError(t, err)

	assert.True(t, n.OK())
	assert.Equal(t, "event.approve", n.Action)
	assert.Equal(t, models.ID("12"), n.Target)
	assert.Equal(t, "Event approved.", n.Message)

	assert.Equal(t, []backendCall{{"PUT", "/api/admin/events/12/approve", ""}}, *calls)
	assert.Equal(t, 1, int(refresher.calls.Load()))
	require.Len(t, audit.notices, 1)
	assert.Equal(t, n, audit.notices[0])
}

func TestActions_Dispatch(t *testing.T) {
	tests := []struct {
		resource, verb string
		method, path   string
		body           string
	}{
		{"events", "reject", "PUT", "/api/admin/events/7/reject", `{"reason":"spam"}`},
		{"events", "delete", "DELETE", "/api/admin/events/7", ""},
		{"users", "activate", "PUT", "/api/admin/users/7/toggle-status", `{"isActive":true}`},
		{"users", "deactivate", "PUT", "/api/admin/users/7/toggle-status", `{"isActive":false}`},
		{"users", "block", "PUT", "/api/admin/users/7/block", ""},
		{"users", "unblock", "PUT", "/api/admin/users/7/unblock", ""},
		{"users", "delete", "DELETE", "/api/admin/users/7", ""},
		{"notifications", "read", "PUT", "/api/notifications/7/read", ""},
		{"notifications", "dismiss", "DELETE", "/api/notifications/7", ""},
		{"articles", "publish", "PUT", "/api/admin/articles/7/publish", ""},
		{"articles", "unpublish", "PUT", "/api/admin/articles/7/unpublish", ""},
		{"articles", "delete", "DELETE", "/api/admin/articles/7", ""},
	}

	for _, tt := range tests {
		t.Run(tt.resource+"/"+tt.verb, func(t *testing.T) {
			actions, refresher, _, calls := newActionsBackend(t, nil)

			n, err := actions.Do(context.Background(), tt.resource, tt.verb, "7", "spam")
			require.NoError(t, err)
			assert.True(t, n.OK())

			require.Len(t, *calls, 1)
			got := (*calls)[0]
			assert.Equal(t, tt.method, got.Method)
			assert.Equal(t, tt.path, got.Path)
			if tt.body != "" {
				assert.JSONEq(t, tt.body, got.Body)
			}
			assert.Equal(t, 1, int(refresher.calls.Load()))
		})
	}
}

func TestActions_MarkAllRead(t *testing.T) {
	actions, refresher, _, calls := newActionsBackend(t, nil)

	n, err := actions.MarkAllNotificationsRead(context.Background())
	require.NoError(t, err)
	assert.Empty(t, n.Target)
	assert.Equal(t, "/api/notifications/read-all", (*calls)[0].Path)
	assert.Equal(t, 1, int(refresher.calls.Load()))
}

func TestActions_FailureUsesServerMessage(t *testing.T) {
	actions, refresher, audit, _ := newActionsBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message": "Event already approved"}`))
	})

	n, err := actions.ApproveEvent(context.Background(), "12")
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apiclient.StatusOf(err))

	assert.Equal(t, LevelError, n.Level)
	assert.Equal(t, "Event already approved", n.Message)
	assert.Zero(t, int(refresher.calls.Load()), "failed actions do not refresh")
	assert.Len(t, audit.notices, 1)
}

func TestActions_FailureFallsBackToGenericMessage(t *testing.T) {
	actions, _, _, _ := newActionsBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`<html>bad gateway</html>`))
	})

	n, err := actions.BlockUser(context.Background(), "3")
	require.Error(t, err)
	assert.Equal(t, GenericFailure, n.Message)
}

func TestActions_ValidationSendsNothing(t *testing.T) {
	actions, refresher, audit, calls := newActionsBackend(t, nil)
	ctx := context.Background()

	n, err := actions.RejectEvent(ctx, "9", "   ")
	assert.ErrorIs(t, err, status.ErrMissingReason)
	assert.Equal(t, LevelError, n.Level)
	assert.Contains(t, n.Message, "rejection reason is required")

	_, err = actions.DeleteUser(ctx, "")
	assert.ErrorIs(t, err, status.ErrMissingID)

	assert.Empty(t, *calls)
	assert.Zero(t, int(refresher.calls.Load()))
	assert.Len(t, audit.notices, 2)
}

func TestActions_UnknownAction(t *testing.T) {
	actions, _, audit, calls := newActionsBackend(t, nil)

	_, err := actions.Do(context.Background(), "events", "archive", "1", "")
	assert.ErrorIs(t, err, status.ErrUnknownAction)
	assert.Empty(t, *calls)
	assert.Empty(t, audit.notices)
}

func TestActions_AuditFailureDoesNotFailAction(t *testing.T) {
	actions, refresher, audit, _ := newActionsBackend(t, nil)
	audit.err = errors.New("db locked")

	n, err := actions.PublishArticle(context.Background(), "4")
	require.NoError(t, err)
	assert.True(t, n.OK())
	assert.Equal(t, 1, int(refresher.calls.Load()))
}
