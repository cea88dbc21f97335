package analytics

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/tasks", nil)
	r.Header.Set("X-Platform", " iOS ")
	r.Header.Set("X-App-Version", "1.4.0")
	r.Header.Set("X-Session-Id", "sess-1")
	r.Header.Set("Accept-Language", "de-DE")

	env := FromRequest(r)

	assert.Equal(t, "ios", env.Platform)
	assert.Equal(t, "1.4.0", env.AppVersion)
	assert.Equal(t, "sess-1", env.SessionID)
	assert.Equal(t, "de-DE", env.DeviceLocale)
}

func TestFromRequestUnknownPlatform(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/tasks", nil)
	r.Header.Set("X-Platform", "blackberry")
	r.Header.Set("X-Device-Locale", "en-US")

	env := FromRequest(r)

	assert.Equal(t, "unknown", env.Platform)
	assert.Equal(t, "en-US", env.DeviceLocale)
}

func TestEventKeyFromRequest(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/tasks", nil)
	r.Header.Set("Idempotency-Key", "abc-123")
	assert.Equal(t, "abc-123", EventKeyFromRequest(r))

	r = httptest.NewRequest("POST", "/api/tasks", nil)
	r.Header.Set("X-Source-Event-Key", "legacy-key")
	assert.Equal(t, "legacy-key", EventKeyFromRequest(r))

	r = httptest.NewRequest("POST", "/api/tasks", nil)
	generated := EventKeyFromRequest(r)
	assert.NotEmpty(t, generated)
	assert.NotEqual(t, generated, EventKeyFromRequest(r))
}

func TestTierFromScore(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{250, "urgent"},
		{160, "urgent"},
		{159, "high"},
		{100, "high"},
		{99, "normal"},
		{0, "normal"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TierFromScore(tt.score), "score %d", tt.score)
	}
}

func TestUserIDContextRoundTrip(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)

	_, ok := UserIDFromContext(r.Context())
	assert.False(t, ok)

	ctx := WithUserID(r.Context(), 9)
	uid, ok := UserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, 9, uid)
}
