package entities

import "time"

// StallEventType identifies the kind of change a StallEvent describes.
type StallEventType string

const (
	StallEventCreated       StallEventType = "stall.created"
	StallEventUpdated       StallEventType = "stall.updated"
	StallEventRatingUpdated StallEventType = "stall.rating_updated"
)

// StallEvent is published on the event bus when a stall changes, so
// caches and search indexes can react without polling.
type StallEvent struct {
	ID        string         `json:"id"`
	Type      StallEventType `json:"type"`
	StallID   string         `json:"stall_id"`
	Payload   *Stall         `json:"payload,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}
