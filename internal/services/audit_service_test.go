package services

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"sangkumfund/internal/dashboard"
	_ "sangkumfund/migrations"

	"github.com/pocketbase/pocketbase/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAudit(t *testing.T) *AuditService {
	t.Helper()
	app, err := tests.NewTestApp()
	require.NoError(t, err)
	t.Cleanup(app.Cleanup)
	return NewAuditService(app)
}

func TestAuditService_RecordAndRecent(t *testing.T) {
	audit := newTestAudit(t)
	ctx := context.Background()

	require.NoError(t, audit.Record(ctx, dashboard.Notice{
		Action:  "event.approve",
		Target:  "12",
		Level:   dashboard.LevelSuccess,
		Message: "Event approved.",
	}))
	require.NoError(t, audit.Record(ctx, dashboard.Notice{
		Action:  "event.reject",
		Target:  "13",
		Level:   dashboard.LevelError,
		Message: "validation failed: rejection reason is required",
	}))
	require.NoError(t, audit.Record(ctx, dashboard.Notice{
		Action:  "user.block",
		Target:  "3",
		Level:   dashboard.LevelSuccess,
		Message: "User blocked.",
		Reason:  "spam",
	}))

	all, err := audit.Recent(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, all, 3)

	actions := []string{}
	for _, e := range all {
		actions = append(actions, e.Action)
		assert.NotEmpty(t, e.ID)
		assert.False(t, e.Created.IsZero())
	}
	assert.ElementsMatch(t, []string{"event.approve", "event.reject", "user.block"}, actions)

	blocks, err := audit.Recent(ctx, "user.block", 10)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "3", blocks[0].Target)
	assert.Equal(t, "spam", blocks[0].Reason)
	assert.Equal(t, "success", blocks[0].Level)

	limited, err := audit.Recent(ctx, "", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestAuditService_RejectsUnknownLevel(t *testing.T) {
	audit := newTestAudit(t)

	err := audit.Record(context.Background(), dashboard.Notice{Action: "event.delete", Level: "warning"})
	assert.Error(t, err)
}

func TestAuditService_TruncatesLongTexts(t *testing.T) {
	audit := newTestAudit(t)
	ctx := context.Background()

	require.NoError(t, audit.Record(ctx, dashboard.Notice{
		Action:  "event.reject",
		Target:  "12",
		Level:   dashboard.LevelError,
		Message: strings.Repeat("ស", 1500),
		Reason:  strings.Repeat("x", 4000),
	}))

	entries, err := audit.Recent(ctx, "event.reject", 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 1000, utf8.RuneCountInString(entries[0].Message))
	assert.Len(t, entries[0].Reason, 1000)
}
