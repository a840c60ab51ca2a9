package store

import "github.com/google/uuid"

// newNoteID returns a unique note identifier. Notes used to be keyed by
// creation timestamp, which collides when two notes land in the same
// millisecond; random UUIDs close that window.
func newNoteID() string {
	return uuid.NewString()
}
