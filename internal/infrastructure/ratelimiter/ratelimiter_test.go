package ratelimiter

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowBurstThenDeny(t *testing.T) {
	rl := New(Options{
		MaxRatePerSecond: 1,
		MaxBurst:         3,
	})

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("client"), "burst request %d should pass", i)
	}
	assert.False(t, rl.Allow("client"))
}

func TestSourcesAreIndependent(t *testing.T) {
	rl := New(Options{
		MaxRatePerSecond: 1,
		MaxBurst:         1,
	})

	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"))
}

func TestRemaining(t *testing.T) {
	rl := New(Options{
		MaxRatePerSecond: 1,
		MaxBurst:         5,
	})

	assert.Equal(t, 5, rl.Remaining("client"))
	rl.Allow("client")
	rl.Allow("client")
	assert.Equal(t, 3, rl.Remaining("client"))
}

func TestRefill(t *testing.T) {
	rl := New(Options{
		MaxRatePerSecond: 100,
		MaxBurst:         1,
	})

	assert.True(t, rl.Allow("client"))
	assert.False(t, rl.Allow("client"))

	time.Sleep(50 * time.Millisecond)
	assert.True(t, rl.Allow("client"), "tokens should refill over time")
}

func TestDefaults(t *testing.T) {
	rl := New(Options{MaxRatePerSecond: 7})

	assert.Equal(t, 7, rl.GetMaxBurst())
}

func TestGetSourceKey(t *testing.T) {
	rl := New(Options{
		MaxRatePerSecond: 1,
		SourceHeaderKey:  "X-Forwarded-For",
	})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	assert.Equal(t, "10.0.0.1:1234", rl.GetSourceKey(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.9")
	assert.Equal(t, "203.0.113.9", rl.GetSourceKey(r))
}
