package hooks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSigner(t *testing.T) {
	event := Event{ID: "3b9f6c1e-0000-4000-8000-000000000001", Type: attendanceEvent}
	body := []byte(`{"event_type":"org.superhappydevhouse.event.Attendance"}`)

	signer, err := NewSigner("shared-secret")
	require.NoError(t, err)
	signer.now = func() time.Time { return time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC) }

	token, err := signer.Sign(event, body)
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		claims, err := signer.Verify(token, body)
		require.NoError(t, err)
		assert.Equal(t, "welcome", claims.Issuer)
		assert.Equal(t, event.ID, claims.ID)
		assert.Equal(t, event.Type, claims.Subject)
	})

	t.Run("tampered body", func(t *testing.T) {
		_, err := signer.Verify(token, []byte(`{"event_type":"other"}`))
		assert.Error(t, err)
	})

	t.Run("wrong key", func(t *testing.T) {
		other, err := NewSigner("another-secret")
		require.NoError(t, err)
		_, err = other.Verify(token, body)
		assert.Error(t, err)
	})

	t.Run("empty key rejected", func(t *testing.T) {
		_, err := NewSigner("")
		assert.Error(t, err)
	})
}
