// Package domain provides the value types shared by the check-in pipeline:
// attendee keys, print job identifiers, event keys, and cards.
package domain

import (
	"strconv"
	"strings"

	dErrors "welcome/pkg/domain-errors"
)

// Distinct identifier types - compiler prevents passing a JobID where an
// attendee key is expected.
type (
	// AttendeeKey is the caller-supplied badge or registration code.
	AttendeeKey string
	// JobID identifies a print job. Allocated monotonically, never reused.
	JobID int64
)

// Parse functions - use at trust boundaries (handlers, API inputs).

func ParseAttendeeKey(s string) (AttendeeKey, error) {
	if strings.TrimSpace(s) == "" {
		return "", dErrors.New(dErrors.CodeBadRequest, "attendee key cannot be empty")
	}
	return AttendeeKey(s), nil
}

func ParseJobID(s string) (JobID, error) {
	if s == "" {
		return 0, dErrors.New(dErrors.CodeBadRequest, "job id cannot be empty")
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, dErrors.New(dErrors.CodeBadRequest, "job id must be a positive integer")
	}
	return JobID(n), nil
}

func (k AttendeeKey) String() string { return string(k) }
func (id JobID) String() string      { return strconv.FormatInt(int64(id), 10) }

func (k AttendeeKey) IsNil() bool { return k == "" }
func (id JobID) IsNil() bool      { return id == 0 }

// EventKey names the event the process is currently checking people in for,
// e.g. "shdh_99".
type EventKey string

// ParseEventKey requires a prefix and a number separated by "_".
func ParseEventKey(s string) (EventKey, error) {
	parts := strings.Split(s, "_")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, `event key should look like "shdh_99"`)
	}
	return EventKey(s), nil
}

func (k EventKey) String() string { return string(k) }

// Number returns the part after the first "_" ("99" for "shdh_99").
func (k EventKey) Number() string {
	_, after, found := strings.Cut(string(k), "_")
	if !found {
		return ""
	}
	if n, _, ok := strings.Cut(after, "_"); ok {
		return n
	}
	return after
}

// PrintTemplate is the standing set of fields stamped onto every badge.
func (k EventKey) PrintTemplate() Card {
	return Card{
		"event_key":   string(k),
		"shdh_number": k.Number(),
	}
}
