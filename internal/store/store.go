package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// Session is the persisted state of one signed-in Discord user.
type Session struct {
	DiscordID string `db:"discord_id"`
	UserID    string `db:"user_id"`
	Token     string `db:"token"`
	// Profile is the JSON-encoded profile snapshot.
	Profile []byte `db:"profile"`
	// Location is the last shipping address that was accepted.
	Location  string    `db:"location"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// SessionRepository defines session persistence operations.
type SessionRepository interface {
	// Get returns ErrNotFound when the user has no session.
	Get(ctx context.Context, discordID string) (*Session, error)
	// Save inserts or replaces the session wholesale.
	Save(ctx context.Context, s *Session) error
	// Delete removes the session; deleting a missing session is not an error.
	Delete(ctx context.Context, discordID string) error
}
