package services

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"sangkumfund/internal/dashboard"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"
)

const AuditCollection = "admin_actions"

const defaultAuditLimit = 50

// Field limits of the admin_actions collection.
const (
	auditActionMax = 64
	auditTargetMax = 128
	auditTextMax   = 1000
)

// AuditEntry is one stored operator action.
type AuditEntry struct {
	ID      string         `db:"id" json:"id"`
	Action  string         `db:"action" json:"action"`
	Target  string         `db:"target" json:"target"`
	Level   string         `db:"level" json:"level"`
	Message string         `db:"message" json:"message"`
	Reason  string         `db:"reason" json:"reason"`
	Created types.DateTime `db:"created" json:"created"`
}

// AuditService keeps the operator action log in the console's own
// PocketBase database.
type AuditService struct {
	app core.App
}

func NewAuditService(app core.App) *AuditService {
	return &AuditService{app: app}
}

// clip cuts s to at most max runes.
func clip(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

// Record implements dashboard.AuditLog. Texts longer than the collection
// allows are truncated.
func (s *AuditService) Record(ctx context.Context, n dashboard.Notice) error {
	collection, err := s.app.FindCachedCollectionByNameOrId(AuditCollection)
	if err != nil {
		return fmt.Errorf("audit: find collection: %w", err)
	}

	record := core.NewRecord(collection)
	record.Set("action", clip(n.Action, auditActionMax))
	record.Set("target", clip(n.Target.String(), auditTargetMax))
	record.Set("level", string(n.Level))
	record.Set("message", clip(n.Message, auditTextMax))
	record.Set("reason", clip(n.Reason, auditTextMax))

	if err := s.app.SaveWithContext(ctx, record); err != nil {
		return fmt.Errorf("audit: save %s: %w", n.Action, err)
	}

	slog.Debug("audit recorded", "action", n.Action, "target", n.Target, "level", n.Level)
	return nil
}

// Recent returns up to limit entries, newest first. An empty action
// matches every action.
func (s *AuditService) Recent(ctx context.Context, action string, limit int) ([]AuditEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = defaultAuditLimit
	}

	q := s.app.DB().
		Select("id", "action", "target", "level", "message", "reason", "created").
		From(AuditCollection).
		OrderBy("created DESC", "rowid DESC").
		Limit(int64(limit)).
		WithContext(ctx)

	if action != "" {
		q = q.Where(dbx.HashExp{"action": action})
	}

	entries := []AuditEntry{}
	if err := q.All(&entries); err != nil {
		return nil, fmt.Errorf("audit: query: %w", err)
	}
	return entries, nil
}
