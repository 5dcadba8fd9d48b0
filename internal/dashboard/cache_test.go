package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"sangkumfund/internal/status"
	"sangkumfund/models"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() *Snapshot {
	return buildSnapshot(7, time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC), sources{
		donations: []models.Donation{{ID: "1", Amount: models.NewAmount(12.5)}},
	})
}

func TestRedisSnapshotCache_PublishAndLoad(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisSnapshotCache(db, "", 10*time.Minute)
	ctx := context.Background()

	snap := testSnapshot()
	data, err := json.Marshal(snap)
	require.NoError(t, err)

	mock.ExpectSet(DefaultSnapshotKey, data, 10*time.Minute).SetVal("OK")
	require.NoError(t, cache.Publish(ctx, snap))

	mock.ExpectGet(DefaultSnapshotKey).SetVal(string(data))
	got, err := cache.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), got.Seq)
	assert.Equal(t, "$12.50", got.Stats.TotalAmountDisplay)
	require.Len(t, got.Donations, 1)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSnapshotCache_Miss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisSnapshotCache(db, "snap", time.Minute)

	mock.ExpectGet("snap").RedisNil()
	_, err := cache.Load(context.Background())
	assert.ErrorIs(t, err, status.ErrCacheMiss)

	mock.ExpectGet("snap").SetVal("{not json")
	_, err = cache.Load(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, status.ErrCacheMiss)
}

func TestRedisSnapshotCache_SetError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisSnapshotCache(db, "snap", time.Minute)
	snap := testSnapshot()
	data, _ := json.Marshal(snap)

	mock.ExpectSet("snap", data, time.Minute).SetErr(errors.New("READONLY"))
	err := cache.Publish(context.Background(), snap)
	assert.ErrorContains(t, err, "READONLY")
}

func TestPubNubPublisher_SendsHeadlineStats(t *testing.T) {
	var gotChannel string
	var gotMsg map[string]any
	p := &PubNubPublisher{
		channel: "console-dashboard",
		send: func(channel string, msg any) error {
			gotChannel = channel
			gotMsg = msg.(map[string]any)
			return nil
		},
	}

	snap := testSnapshot()
	require.NoError(t, p.Publish(context.Background(), snap))

	assert.Equal(t, "console-dashboard", gotChannel)
	assert.Equal(t, "dashboard_refreshed", gotMsg["type"])
	assert.Equal(t, uint64(7), gotMsg["seq"])
	assert.Equal(t, snap.Stats, gotMsg["stats"])
	assert.NotContains(t, gotMsg, "donations")
}

func TestPubNubPublisher_WrapsError(t *testing.T) {
	p := &PubNubPublisher{
		channel: "c",
		send:    func(string, any) error { return errors.New("403 forbidden") },
	}
	err := p.Publish(context.Background(), testSnapshot())
	assert.ErrorContains(t, err, "pubnub publish c")
}
