package taskstore

import (
	"github.com/google/uuid"
)

// NewID generates a task or subtask id. UUIDv7 carries a millisecond
// timestamp followed by random bits, so ids sort by creation time and
// rapid creation inside one millisecond still yields distinct values.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
