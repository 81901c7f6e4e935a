package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWindow = 15 * time.Minute

func newThrottle(t *testing.T, maxAttempts int) (*LoginThrottle, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := NewClient(Config{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewLoginThrottle(client, maxAttempts, testWindow), mr
}

func TestLoginThrottle_LocksOutOnMaxAttempts(t *testing.T) {
	throttle, mr := newThrottle(t, 3)
	ctx := context.Background()

	ok, err := throttle.Allowed(ctx, "user001")
	require.NoError(t, err)
	assert.True(t, ok, "no failures yet")

	for i := 1; i < 3; i++ {
		require.NoError(t, throttle.RecordFailure(ctx, "user001"))
		ok, err = throttle.Allowed(ctx, "user001")
		require.NoError(t, err)
		assert.True(t, ok, "failure %d is under the limit", i)
	}

	require.NoError(t, throttle.RecordFailure(ctx, "user001"))
	ok, err = throttle.Allowed(ctx, "user001")
	require.NoError(t, err)
	assert.False(t, ok, "third failure must lock out")

	got, err := mr.Get("login:failures:user001")
	require.NoError(t, err)
	assert.Equal(t, "3", got)

	ok, err = throttle.Allowed(ctx, "user002")
	require.NoError(t, err)
	assert.True(t, ok, "counters are per identifier")
}

func TestLoginThrottle_WindowStartsAtFirstFailure(t *testing.T) {
	throttle, mr := newThrottle(t, 3)
	ctx := context.Background()
	key := "login:failures:user001"

	require.NoError(t, throttle.RecordFailure(ctx, "user001"))
	assert.Equal(t, testWindow, mr.TTL(key))

	mr.FastForward(5 * time.Minute)
	require.NoError(t, throttle.RecordFailure(ctx, "user001"))
	assert.Equal(t, testWindow-5*time.Minute, mr.TTL(key), "later failures must not extend the window")

	require.NoError(t, throttle.RecordFailure(ctx, "user001"))
	ok, err := throttle.Allowed(ctx, "user001")
	require.NoError(t, err)
	assert.False(t, ok)

	mr.FastForward(testWindow)
	assert.False(t, mr.Exists(key))
	ok, err = throttle.Allowed(ctx, "user001")
	require.NoError(t, err)
	assert.True(t, ok, "lockout ends with the window")
}

func TestLoginThrottle_Reset(t *testing.T) {
	throttle, mr := newThrottle(t, 2)
	ctx := context.Background()

	require.NoError(t, throttle.RecordFailure(ctx, "user001"))
	require.NoError(t, throttle.RecordFailure(ctx, "user001"))
	require.NoError(t, throttle.Reset(ctx, "user001"))

	assert.False(t, mr.Exists("login:failures:user001"))
	ok, err := throttle.Allowed(ctx, "user001")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, throttle.Reset(ctx, "ghost"), "resetting an absent counter is a no-op")
}

func TestLoginThrottle_BackendDownAllows(t *testing.T) {
	throttle, mr := newThrottle(t, 3)
	mr.Close()

	ok, err := throttle.Allowed(context.Background(), "user001")
	assert.Error(t, err)
	assert.True(t, ok, "callers fail open on backend errors")
	assert.Error(t, throttle.RecordFailure(context.Background(), "user001"))
}

func TestNewLoginThrottle_Defaults(t *testing.T) {
	throttle := NewLoginThrottle(nil, 0, 0)
	assert.EqualValues(t, 5, throttle.maxAttempts)
	assert.Equal(t, 15*time.Minute, throttle.window)
}

func TestConnect_Password(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("s3cret")
	ctx := context.Background()

	_, err := Connect(ctx, Config{Addr: mr.Addr(), Password: "wrong", Timeout: time.Second})
	assert.Error(t, err)

	client, err := Connect(ctx, Config{Addr: mr.Addr(), Password: "s3cret", Timeout: time.Second})
	require.NoError(t, err)
	require.NoError(t, client.Close())
}
