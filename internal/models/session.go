package models

import "encoding/json"

// Session is a saved bill-splitting session.
// The server never interprets Data; it is stored and returned as-is so the
// frontend can evolve its own state format.
type Session struct {
	// ID is the unique identifier for the session (UUID format).
	ID string

	// Title is the human-readable name for the session.
	// Auto-generated from the creation date when empty.
	Title string

	// Data is the opaque JSON document describing the session state.
	Data json.RawMessage

	// CreatedAt is the Unix timestamp when the session was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last write.
	// Retention pruning is based on this field.
	UpdatedAt int64
}
