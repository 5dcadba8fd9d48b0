package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"sangkumfund/internal/dashboard"
	"sangkumfund/internal/services"
	"sangkumfund/internal/status"
	"sangkumfund/models"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

type snapshotSource interface {
	Current() (*dashboard.Snapshot, error)
	Refresh(ctx context.Context, trigger string) (*dashboard.Snapshot, error)
}

type actionRunner interface {
	Do(ctx context.Context, resource, verb string, id models.ID, reason string) (dashboard.Notice, error)
	MarkAllNotificationsRead(ctx context.Context) (dashboard.Notice, error)
}

type auditReader interface {
	Recent(ctx context.Context, action string, limit int) ([]services.AuditEntry, error)
}

type DashboardHandler struct {
	snapshots snapshotSource
	actions   actionRunner
	audit     auditReader
}

func NewDashboardHandler(snapshots snapshotSource, actions actionRunner, audit auditReader) *DashboardHandler {
	return &DashboardHandler{
		snapshots: snapshots,
		actions:   actions,
		audit:     audit,
	}
}

// overview is the snapshot without its full collections.
type overview struct {
	Seq       uint64                   `json:"seq"`
	FetchedAt time.Time                `json:"fetched_at"`
	Stats     dashboard.Stats          `json:"stats"`
	Activity  []dashboard.ActivityItem `json:"activity"`
	Counts    map[string]int           `json:"counts"`
	Degraded  []string                 `json:"degraded,omitempty"`
}

func newOverview(s *dashboard.Snapshot) overview {
	return overview{
		Seq:       s.Seq,
		FetchedAt: s.FetchedAt,
		Stats:     s.Stats,
		Activity:  s.Activity,
		Counts: map[string]int{
			"events":        len(s.Events),
			"donations":     len(s.Donations),
			"users":         len(s.Users),
			"notifications": len(s.Notifications),
			"articles":      len(s.Articles),
		},
		Degraded: s.Degraded,
	}
}

// GetDashboard - Latest snapshot summary
func (h *DashboardHandler) GetDashboard(e *core.RequestEvent) error {
	snap, err := h.snapshots.Current()
	if errors.Is(err, status.ErrNoSnapshot) {
		return e.JSON(http.StatusServiceUnavailable, map[string]string{
			"message": "Dashboard is still loading",
		})
	}
	if err != nil {
		return apis.NewInternalServerError("Failed to load dashboard", err)
	}
	return e.JSON(http.StatusOK, newOverview(snap))
}

// GetTab - Collection rendered by one tab
func (h *DashboardHandler) GetTab(e *core.RequestEvent) error {
	tab, err := dashboard.ParseTab(e.Request.PathValue("tab"))
	if err != nil {
		return apis.NewNotFoundError("Unknown tab", err)
	}

	query := e.Request.URL.Query()
	filter, err := dashboard.ParseNotificationFilter(query.Get("filter"))
	if err != nil {
		return apis.NewBadRequestError("Invalid filter", err)
	}

	snap, err := h.snapshots.Current()
	if errors.Is(err, status.ErrNoSnapshot) {
		return e.JSON(http.StatusServiceUnavailable, map[string]string{
			"message": "Dashboard is still loading",
		})
	}
	if err != nil {
		return apis.NewInternalServerError("Failed to load dashboard", err)
	}

	view := dashboard.View(snap, tab, dashboard.Query{
		Filter: filter,
		Type:   models.NotificationType(strings.ToUpper(query.Get("type"))),
		Status: models.ArticleStatus(strings.ToUpper(query.Get("status"))),
	})
	return e.JSON(http.StatusOK, view)
}

// Refresh - Run a full refresh now
func (h *DashboardHandler) Refresh(e *core.RequestEvent) error {
	snap, err := h.snapshots.Refresh(e.Request.Context(), "manual")
	if err != nil {
		return apis.NewApiError(http.StatusServiceUnavailable, "Refresh was cancelled", err)
	}
	return e.JSON(http.StatusOK, newOverview(snap))
}

// Act returns the handler for POST {resource}/{id}/{action}.
func (h *DashboardHandler) Act(resource string) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req struct {
			Reason string `json:"reason"`
		}
		if e.Request.ContentLength > 0 {
			if err := e.BindBody(&req); err != nil {
				return apis.NewBadRequestError("Invalid request", err)
			}
		}

		id := models.ID(e.Request.PathValue("id"))
		notice, err := h.actions.Do(e.Request.Context(), resource, e.Request.PathValue("action"), id, req.Reason)
		return h.respond(e, notice, err)
	}
}

// MarkAllRead - Mark every notification as read
func (h *DashboardHandler) MarkAllRead(e *core.RequestEvent) error {
	notice, err := h.actions.MarkAllNotificationsRead(e.Request.Context())
	return h.respond(e, notice, err)
}

func (h *DashboardHandler) respond(e *core.RequestEvent, notice dashboard.Notice, err error) error {
	switch {
	case err == nil:
		return e.JSON(http.StatusOK, notice)
	case errors.Is(err, status.ErrUnknownAction):
		return apis.NewNotFoundError("Unknown action", err)
	case errors.Is(err, status.ErrValidation):
		return e.JSON(http.StatusBadRequest, notice)
	default:
		return e.JSON(http.StatusBadGateway, notice)
	}
}

// GetAudit - Recent operator actions
func (h *DashboardHandler) GetAudit(e *core.RequestEvent) error {
	query := e.Request.URL.Query()
	limit, _ := strconv.Atoi(query.Get("limit"))

	entries, err := h.audit.Recent(e.Request.Context(), query.Get("action"), limit)
	if err != nil {
		return apis.NewInternalServerError("Failed to load audit log", err)
	}
	return e.JSON(http.StatusOK, entries)
}

// Register binds the console routes under /api/v1/dashboard behind the
// given middlewares, in order.
func (h *DashboardHandler) Register(se *core.ServeEvent, middlewares ...func(*core.RequestEvent) error) {
	g := se.Router.Group("/api/v1/dashboard")
	for _, mw := range middlewares {
		g.BindFunc(mw)
	}

	g.GET("", h.GetDashboard)
	g.GET("/tabs/{tab}", h.GetTab)
	g.POST("/refresh", h.Refresh)
	g.GET("/audit", h.GetAudit)

	g.POST("/events/{id}/{action}", h.Act("events"))
	g.POST("/users/{id}/{action}", h.Act("users"))
	g.POST("/notifications/read-all", h.MarkAllRead)
	g.POST("/notifications/{id}/{action}", h.Act("notifications"))
	g.POST("/articles/{id}/{action}", h.Act("articles"))
}
