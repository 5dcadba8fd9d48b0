package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"sangkumfund/internal/api"
	"sangkumfund/internal/apiclient"
	"sangkumfund/internal/status"
	"sangkumfund/models"
	"sangkumfund/monitoring"
)

// GenericFailure is shown when a failed action carries no server message.
const GenericFailure = "The action could not be completed. Please try again."

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notice is the operator-facing outcome of one action.
type Notice struct {
	Action  string    `json:"action"`
	Target  models.ID `json:"target,omitempty"`
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	Reason  string    `json:"reason,omitempty"`
	At      time.Time `json:"at"`
}

func (n Notice) OK() bool { return n.Level == LevelSuccess }

// AuditLog stores every action outcome.
type AuditLog interface {
	Record(ctx context.Context, n Notice) error
}

// Actions performs operator mutations. Each one issues a single backend
// call and, when it succeeds, triggers a full dashboard refresh.
type Actions struct {
	admin         *api.AdminService
	notifications *api.NotificationService
	articles      *api.ArticleService
	refresher     Refresher
	audit         AuditLog
	monitor       *monitoring.Monitor
	now           func() time.Time
}

func NewActions(services *api.Services, refresher Refresher, audit AuditLog, monitor *monitoring.Monitor) *Actions {
	return &Actions{
		admin:         services.Admin,
		notifications: services.Notifications,
		articles:      services.Articles,
		refresher:     refresher,
		audit:         audit,
		monitor:       monitor,
		now:           time.Now,
	}
}

func (a *Actions) ApproveEvent(ctx context.Context, id models.ID) (Notice, error) {
	return a.run(ctx, "event.approve", id, "", "Event approved.", func(ctx context.Context) error {
		return a.admin.ApproveEvent(ctx, id)
	})
}

func (a *Actions) RejectEvent(ctx context.Context, id models.ID, reason string) (Notice, error) {
	return a.run(ctx, "event.reject", id, reason, "Event rejected.", func(ctx context.Context) error {
		return a.admin.RejectEvent(ctx, id, reason)
	})
}

func (a *Actions) DeleteEvent(ctx context.Context, id models.ID) (Notice, error) {
	return a.run(ctx, "event.delete", id, "", "Event deleted.", func(ctx context.Context) error {
		return a.admin.DeleteEvent(ctx, id)
	})
}

func (a *Actions) ActivateUser(ctx context.Context, id models.ID) (Notice, error) {
	return a.run(ctx, "user.activate", id, "", "User activated.", func(ctx context.Context) error {
		return a.admin.SetUserActive(ctx, id, true)
	})
}

func (a *Actions) DeactivateUser(ctx context.Context, id models.ID) (Notice, error) {
	return a.run(ctx, "user.deactivate", id, "", "User deactivated.", func(ctx context.Context) error {
		return a.admin.SetUserActive(ctx, id, false)
	})
}

func (a *Actions) BlockUser(ctx context.Context, id models.ID) (Notice, error) {
	return a.run(ctx, "user.block", id, "", "User blocked.", func(ctx context.Context) error {
		return a.admin.BlockUser(ctx, id)
	})
}

func (a *Actions) UnblockUser(ctx context.Context, id models.ID) (Notice, error) {
	return a.run(ctx, "user.unblock", id, "", "User unblocked.", func(ctx context.Context) error {
		return a.admin.UnblockUser(ctx, id)
	})
}

func (a *Actions) DeleteUser(ctx context.Context, id models.ID) (Notice, error) {
	return a.run(ctx, "user.delete", id, "", "User deleted.", func(ctx context.Context) error {
		return a.admin.DeleteUser(ctx, id)
	})
}

func (a *Actions) MarkNotificationRead(ctx context.Context, id models.ID) (Notice, error) {
	return a.run(ctx, "notification.read", id, "", "Notification marked as read.", func(ctx context.Context) error {
		return a.notifications.MarkRead(ctx, id)
	})
}

func (a *Actions) DismissNotification(ctx context.Context, id models.ID) (Notice, error) {
	return a.run(ctx, "notification.dismiss", id, "", "Notification dismissed.", func(ctx context.Context) error {
		return a.notifications.Delete(ctx, id)
	})
}

// MarkAllNotificationsRead has no target.
func (a *Actions) MarkAllNotificationsRead(ctx context.Context) (Notice, error) {
	return a.exec(ctx, "notification.read-all", "", "", "All notifications marked as read.", a.notifications.MarkAllRead)
}

func (a *Actions) PublishArticle(ctx context.Context, id models.ID) (Notice, error) {
	return a.run(ctx, "article.publish", id, "", "Article published.", func(ctx context.Context) error {
		return a.articles.Publish(ctx, id)
	})
}

func (a *Actions) UnpublishArticle(ctx context.Context, id models.ID) (Notice, error) {
	return a.run(ctx, "article.unpublish", id, "", "Article unpublished.", func(ctx context.Context) error {
		return a.articles.Unpublish(ctx, id)
	})
}

func (a *Actions) DeleteArticle(ctx context.Context, id models.ID) (Notice, error) {
	return a.run(ctx, "article.delete", id, "", "Article deleted.", func(ctx context.Context) error {
		return a.articles.Delete(ctx, id)
	})
}

// Do dispatches an action by resource and verb, as named in console routes.
func (a *Actions) Do(ctx context.Context, resource, verb string, id models.ID, reason string) (Notice, error) {
	switch resource + "." + verb {
	case "events.approve":
		return a.ApproveEvent(ctx, id)
	case "events.reject":
		return a.RejectEvent(ctx, id, reason)
	case "events.delete":
		return a.DeleteEvent(ctx, id)
	case "users.activate":
		return a.ActivateUser(ctx, id)
	case "users.deactivate":
		return a.DeactivateUser(ctx, id)
	case "users.block":
		return a.BlockUser(ctx, id)
	case "users.unblock":
		return a.UnblockUser(ctx, id)
	case "users.delete":
		return a.DeleteUser(ctx, id)
	case "notifications.read":
		return a.MarkNotificationRead(ctx, id)
	case "notifications.dismiss":
		return a.DismissNotification(ctx, id)
	case "articles.publish":
		return a.PublishArticle(ctx, id)
	case "articles.unpublish":
		return a.UnpublishArticle(ctx, id)
	case "articles.delete":
		return a.DeleteArticle(ctx, id)
	}
	return Notice{}, fmt.Errorf("%w: %s %s", status.ErrUnknownAction, resource, verb)
}

func (a *Actions) run(ctx context.Context, action string, id models.ID, reason, success string, call func(context.Context) error) (Notice, error) {
	if strings.TrimSpace(id.String()) == "" {
		return a.finish(ctx, action, id, reason, success, status.ErrMissingID)
	}
	return a.exec(ctx, action, id, reason, success, call)
}

func (a *Actions) exec(ctx context.Context, action string, id models.ID, reason, success string, call func(context.Context) error) (Notice, error) {
	return a.finish(ctx, action, id, reason, success, call(ctx))
}

func (a *Actions) finish(ctx context.Context, action string, id models.ID, reason, success string, err error) (Notice, error) {
	n := Notice{
		Action: action,
		Target: id,
		Level:  LevelSuccess,
		Reason: strings.TrimSpace(reason),
		At:     a.now(),
	}
	if err != nil {
		n.Level = LevelError
		n.Message = failureMessage(err)
	} else {
		n.Message = success
	}

	a.monitor.TrackAction(action, err == nil)
	if a.audit != nil {
		if aerr := a.audit.Record(ctx, n); aerr != nil {
			slog.Error("audit record failed", "action", action, "target", id, "error", aerr)
		}
	}

	if err != nil {
		slog.Warn("dashboard action failed", "action", action, "target", id, "error", err)
		return n, fmt.Errorf("%s: %w", action, err)
	}

	slog.Info("dashboard action completed", "action", action, "target", id)
	if _, rerr := a.refresher.Refresh(ctx, "action"); rerr != nil {
		slog.Error("post-action refresh failed", "action", action, "error", rerr)
	}
	return n, nil
}

func failureMessage(err error) string {
	if errors.Is(err, status.ErrValidation) {
		return err.Error()
	}
	if msg := apiclient.MessageOf(err); msg != "" {
		return msg
	}
	return GenericFailure
}
