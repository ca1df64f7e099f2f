package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jensholdgaard/hypebid-bot/internal/clock"
	"github.com/jensholdgaard/hypebid-bot/internal/store"
)

// SessionRepo implements store.SessionRepository with sqlx.
type SessionRepo struct {
	db    *sqlx.DB
	clock clock.Clock
}

// NewSessionRepo returns a new SessionRepo.
func NewSessionRepo(db *sqlx.DB, clk clock.Clock) *SessionRepo {
	return &SessionRepo{db: db, clock: clk}
}

func (r *SessionRepo) Get(ctx context.Context, discordID string) (*store.Session, error) {
	var s store.Session
	err := r.db.GetContext(ctx, &s,
		`SELECT discord_id, user_id, token, profile, location, created_at, updated_at
		 FROM sessions WHERE discord_id = $1`, discordID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting session: %w", err)
	}
	return &s, nil
}

func (r *SessionRepo) Save(ctx context.Context, s *store.Session) error {
	now := r.clock.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	profile := s.Profile
	if len(profile) == 0 {
		profile = []byte("{}")
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (discord_id, user_id, token, profile, location, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (discord_id) DO UPDATE SET
		   user_id = EXCLUDED.user_id,
		   token = EXCLUDED.token,
		   profile = EXCLUDED.profile,
		   location = EXCLUDED.location,
		   updated_at = EXCLUDED.updated_at`,
		s.DiscordID, s.UserID, s.Token, string(profile), s.Location, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

func (r *SessionRepo) Delete(ctx context.Context, discordID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE discord_id = $1`, discordID); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}
