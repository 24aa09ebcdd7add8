package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "welcome/pkg/domain-errors"
)

// TestParseAttendeeKey_Invariants validates the invariant
// "attendee keys are never blank".
func TestParseAttendeeKey_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseAttendeeKey("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("rejects whitespace", func(t *testing.T) {
		_, err := ParseAttendeeKey("   ")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("accepts opaque key", func(t *testing.T) {
		key, err := ParseAttendeeKey("badge-0042")
		require.NoError(t, err)
		assert.Equal(t, AttendeeKey("badge-0042"), key)
	})
}

func TestParseJobID(t *testing.T) {
	t.Run("rejects non-integer", func(t *testing.T) {
		_, err := ParseJobID("abc")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("rejects zero and negatives", func(t *testing.T) {
		for _, in := range []string{"0", "-3"} {
			_, err := ParseJobID(in)
			require.Error(t, err, in)
		}
	})

	t.Run("accepts positive integer", func(t *testing.T) {
		id, err := ParseJobID("17")
		require.NoError(t, err)
		assert.Equal(t, JobID(17), id)
		assert.Equal(t, "17", id.String())
	})
}

func TestEventKey(t *testing.T) {
	t.Run("requires underscore separated number", func(t *testing.T) {
		for _, in := range []string{"", "shdh", "shdh_", "_99"} {
			_, err := ParseEventKey(in)
			require.Error(t, err, in)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		}
	})

	t.Run("template carries event key and number", func(t *testing.T) {
		key, err := ParseEventKey("shdh_99")
		require.NoError(t, err)
		assert.Equal(t, Card{"event_key": "shdh_99", "shdh_number": "99"}, key.PrintTemplate())
	})

	t.Run("number stops at the next separator", func(t *testing.T) {
		assert.Equal(t, "42", EventKey("shdh_42_spring").Number())
	})
}
