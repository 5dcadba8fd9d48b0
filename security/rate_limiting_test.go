package security

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEvent() *core.RequestEvent {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/dashboard/refresh", nil)
	req.RemoteAddr = "10.0.0.7:51234"

	e := &core.RequestEvent{}
	e.Request = req
	e.Response = httptest.NewRecorder()
	return e
}

func TestRateLimiter_AllowsUpToLimit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	limiter := NewRateLimiter(db, 2, time.Minute)
	mw := limiter.Limit("console")
	key := "ratelimit:console:10.0.0.7"

	mock.ExpectIncr(key).SetVal(1)
	mock.ExpectExpire(key, time.Minute).SetVal(true)
	assert.NoError(t, mw(newEvent()))

	mock.ExpectIncr(key).SetVal(2)
	assert.NoError(t, mw(newEvent()))

	mock.ExpectIncr(key).SetVal(3)
	err := mw(newEvent())

	var apiErr *router.ApiError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.Status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiter_FailsOpenWhenRedisDown(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mw := NewRateLimiter(db, 1, time.Minute).Limit("console")

	mock.ExpectIncr("ratelimit:console:10.0.0.7").SetErr(errors.New("connection refused"))
	assert.NoError(t, mw(newEvent()))
}

func TestRateLimiter_DropsCounterWhenExpireFails(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mw := NewRateLimiter(db, 1, time.Minute).Limit("console")
	key := "ratelimit:console:10.0.0.7"

	mock.ExpectIncr(key).SetVal(1)
	mock.ExpectExpire(key, time.Minute).SetErr(errors.New("READONLY"))
	mock.ExpectDel(key).SetVal(1)

	assert.NoError(t, mw(newEvent()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
