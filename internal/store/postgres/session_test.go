package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jensholdgaard/hypebid-bot/internal/clock"
	"github.com/jensholdgaard/hypebid-bot/internal/store"
	"github.com/jensholdgaard/hypebid-bot/internal/store/postgres"
)

func TestSessionRepo_SaveGetDelete(t *testing.T) {
	db := newTestDB(t)
	clk := clock.NewMock(time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC))
	repo := postgres.NewSessionRepo(db, clk)
	ctx := context.Background()

	if _, err := repo.Get(ctx, "discord-1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Get before Save: got %v, want ErrNotFound", err)
	}

	s := &store.Session{
		DiscordID: "discord-1",
		UserID:    "u1",
		Token:     "tok-1",
		Profile:   []byte(`{"name":"Budi"}`),
	}
	if err := repo.Save(ctx, s); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.Get(ctx, "discord-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Token != "tok-1" || got.UserID != "u1" {
		t.Errorf("got token=%q user=%q", got.Token, got.UserID)
	}
	if string(got.Profile) != `{"name": "Budi"}` {
		t.Errorf("profile = %s", got.Profile)
	}

	// Save replaces the whole row.
	clk.Advance(time.Minute)
	s.Token = "tok-2"
	s.Location = "Jakarta"
	s.Profile = []byte(`{"name":"Budi S"}`)
	if err := repo.Save(ctx, s); err != nil {
		t.Fatalf("second Save: %v", err)
	}
	got, err = repo.Get(ctx, "discord-1")
	if err != nil {
		t.Fatalf("Get after overwrite: %v", err)
	}
	if got.Token != "tok-2" || got.Location != "Jakarta" {
		t.Errorf("overwrite not applied: %+v", got)
	}
	if !got.UpdatedAt.After(got.CreatedAt) {
		t.Errorf("updated_at %s not after created_at %s", got.UpdatedAt, got.CreatedAt)
	}

	if err := repo.Delete(ctx, "discord-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.Get(ctx, "discord-1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Get after Delete: got %v, want ErrNotFound", err)
	}
	if err := repo.Delete(ctx, "discord-1"); err != nil {
		t.Errorf("deleting a missing session: %v", err)
	}
}
