package service

import (
	"context"

	"welcome/internal/hooks"
)

// AttendanceEventType is the hook event sent on every arrival.
const AttendanceEventType = "org.superhappydevhouse.event.Attendance"

// EventDispatcher is the part of the hook dispatcher arrivals use.
type EventDispatcher interface {
	DispatchEvent(ctx context.Context, eventType string, payload, extra map[string]string) *hooks.Dispatch
}

// DispatchArrivals forwards each arrival's card to the hook recipients with
// the event key as an extra field. Delivery runs in the background.
func DispatchArrivals(d EventDispatcher) ArrivalHandler {
	return func(ctx context.Context, a Arrival) error {
		d.DispatchEvent(ctx, AttendanceEventType, a.Card, map[string]string{
			"event_key": a.EventKey.String(),
		})
		return nil
	}
}
