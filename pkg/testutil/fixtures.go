package testutil

import (
	"welcome/pkg/domain"
)

// EventKey is the event used across tests.
const EventKey = domain.EventKey("shdh_42")

// Keys are stable attendee keys for deterministic test data.
var Keys = struct {
	Alice domain.AttendeeKey
	Bob   domain.AttendeeKey
	Carol domain.AttendeeKey
}{
	Alice: "a1b2c3",
	Bob:   "b2c3d4",
	Carol: "c3d4e5",
}

// Card builds a card from alternating name/value pairs. A trailing name
// without a value is ignored.
func Card(pairs ...string) domain.Card {
	c := make(domain.Card, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		c[pairs[i]] = pairs[i+1]
	}
	return c
}
