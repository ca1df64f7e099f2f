// Package session owns the per-user HypeBid session: the bearer token, the
// cached profile snapshot and the last accepted shipping address. A session
// is opened by login or registration and closed by sign-out.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jensholdgaard/hypebid-bot/internal/account"
	"github.com/jensholdgaard/hypebid-bot/internal/api"
	"github.com/jensholdgaard/hypebid-bot/internal/clock"
	"github.com/jensholdgaard/hypebid-bot/internal/domain"
	"github.com/jensholdgaard/hypebid-bot/internal/event"
	"github.com/jensholdgaard/hypebid-bot/internal/store"
)

// ErrSignedOut is returned when a Discord user has no open session.
var ErrSignedOut = errors.New("not signed in")

// MsgSignedOut is shown to users without a session.
const MsgSignedOut = "You are not signed in. Use /login or /register first."

// Session is an open session.
type Session struct {
	DiscordID string
	UserID    string
	Token     string
	Profile   domain.Profile
	Location  string
	UpdatedAt time.Time
}

// Context returns ctx carrying the session's bearer token.
func (s *Session) Context(ctx context.Context) context.Context {
	return api.WithToken(ctx, s.Token)
}

// Gateway is the part of the API the manager needs.
type Gateway interface {
	Login(ctx context.Context, l account.Login) (domain.Envelope[domain.User], error)
	Register(ctx context.Context, r account.Register) (domain.Envelope[domain.User], error)
	GetAccount(ctx context.Context) (domain.User, error)
}

// Manager opens, reads, overwrites and closes sessions.
type Manager struct {
	repo    store.SessionRepository
	gateway Gateway
	journal *event.Journal
	logger  *slog.Logger
	tracer  trace.Tracer
	clock   clock.Clock
}

// NewManager creates a session Manager.
func NewManager(repo store.SessionRepository, gw Gateway, journal *event.Journal, logger *slog.Logger, tp trace.TracerProvider, clk clock.Clock) *Manager {
	return &Manager{
		repo:    repo,
		gateway: gw,
		journal: journal,
		logger:  logger,
		tracer:  tp.Tracer("github.com/jensholdgaard/hypebid-bot/internal/session"),
		clock:   clk,
	}
}

// Login validates the form, signs in and opens a session for discordID.
// It returns the server's message.
func (m *Manager) Login(ctx context.Context, discordID string, form account.Login) (*Session, string, error) {
	ctx, span := m.tracer.Start(ctx, "Manager.Login",
		trace.WithAttributes(attribute.String("discord_id", discordID)),
	)
	defer span.End()

	form, err := form.Validate()
	if err != nil {
		return nil, "", err
	}
	env, err := m.gateway.Login(ctx, form)
	if err != nil {
		return nil, "", fmt.Errorf("logging in: %w", err)
	}
	s, err := m.open(ctx, discordID, env.Data, "login")
	return s, env.Message, err
}

// Register validates the form, creates the account and opens a session.
func (m *Manager) Register(ctx context.Context, discordID string, form account.Register) (*Session, string, error) {
	ctx, span := m.tracer.Start(ctx, "Manager.Register",
		trace.WithAttributes(attribute.String("discord_id", discordID)),
	)
	defer span.End()

	form, err := form.Validate()
	if err != nil {
		return nil, "", err
	}
	env, err := m.gateway.Register(ctx, form)
	if err != nil {
		return nil, "", fmt.Errorf("registering: %w", err)
	}
	s, err := m.open(ctx, discordID, env.Data, "register")
	return s, env.Message, err
}

func (m *Manager) open(ctx context.Context, discordID string, u domain.User, method string) (*Session, error) {
	if u.AccessToken == "" {
		return nil, &domain.RemoteError{StatusCode: 200, Message: "Login response carried no access token"}
	}
	s := &Session{
		DiscordID: discordID,
		UserID:    u.ID,
		Token:     u.AccessToken,
		Profile:   domain.ProfileOf(u),
	}
	if prev, err := m.repo.Get(ctx, discordID); err == nil {
		s.Location = prev.Location
	}
	if err := m.save(ctx, s); err != nil {
		return nil, err
	}
	_ = m.journal.Record(ctx, discordID, event.SessionOpened, event.SessionData{UserID: u.ID, Email: u.Email, Method: method})
	m.logger.InfoContext(ctx, "session opened",
		slog.String("discord_id", discordID),
		slog.String("user_id", u.ID),
		slog.String("method", method),
	)
	return s, nil
}

// Get returns the open session of discordID or ErrSignedOut.
func (m *Manager) Get(ctx context.Context, discordID string) (*Session, error) {
	rec, err := m.repo.Get(ctx, discordID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrSignedOut
	}
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	s := &Session{
		DiscordID: rec.DiscordID,
		UserID:    rec.UserID,
		Token:     rec.Token,
		Location:  rec.Location,
		UpdatedAt: rec.UpdatedAt,
	}
	if len(rec.Profile) > 0 {
		if err := json.Unmarshal(rec.Profile, &s.Profile); err != nil {
			return nil, fmt.Errorf("decoding profile snapshot: %w", err)
		}
	}
	return s, nil
}

// Overwrite replaces the cached profile with u. The last write wins.
func (m *Manager) Overwrite(ctx context.Context, discordID string, u domain.User) (*Session, error) {
	s, err := m.Get(ctx, discordID)
	if err != nil {
		return nil, err
	}
	s.Profile = domain.ProfileOf(u)
	if err := m.save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Refresh re-reads the account and overwrites the cached profile.
func (m *Manager) Refresh(ctx context.Context, discordID string) (*Session, error) {
	ctx, span := m.tracer.Start(ctx, "Manager.Refresh")
	defer span.End()

	s, err := m.Get(ctx, discordID)
	if err != nil {
		return nil, err
	}
	u, err := m.gateway.GetAccount(s.Context(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetching account: %w", err)
	}
	return m.Overwrite(ctx, discordID, u)
}

// RememberLocation stores the last accepted shipping address.
func (m *Manager) RememberLocation(ctx context.Context, discordID, location string) error {
	s, err := m.Get(ctx, discordID)
	if err != nil {
		return err
	}
	s.Location = location
	return m.save(ctx, s)
}

// Close ends the session. Closing a missing session is not an error.
func (m *Manager) Close(ctx context.Context, discordID string) error {
	ctx, span := m.tracer.Start(ctx, "Manager.Close",
		trace.WithAttributes(attribute.String("discord_id", discordID)),
	)
	defer span.End()

	s, err := m.Get(ctx, discordID)
	if errors.Is(err, ErrSignedOut) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := m.repo.Delete(ctx, discordID); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	_ = m.journal.Record(ctx, discordID, event.SessionClosed, event.SessionData{UserID: s.UserID})
	m.logger.InfoContext(ctx, "session closed", slog.String("discord_id", discordID))
	return nil
}

func (m *Manager) save(ctx context.Context, s *Session) error {
	profile, err := json.Marshal(s.Profile)
	if err != nil {
		return fmt.Errorf("encoding profile snapshot: %w", err)
	}
	rec := &store.Session{
		DiscordID: s.DiscordID,
		UserID:    s.UserID,
		Token:     s.Token,
		Profile:   profile,
		Location:  s.Location,
	}
	if err := m.repo.Save(ctx, rec); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	s.UpdatedAt = rec.UpdatedAt
	return nil
}
