package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.opentelemetry.io/otel/trace"

	"github.com/jensholdgaard/hypebid-bot/internal/bot/commands"
	"github.com/jensholdgaard/hypebid-bot/internal/config"
	"github.com/jensholdgaard/hypebid-bot/internal/screen"
	"github.com/jensholdgaard/hypebid-bot/internal/session"
)

// Bot wraps the Discord session and command handlers.
type Bot struct {
	session  *discordgo.Session
	cfg      config.DiscordConfig
	logger   *slog.Logger
	handlers *commands.Handlers
	views    *screen.Registry
	sweep    time.Duration
	cmds     []*discordgo.ApplicationCommand
}

// New creates a new Bot instance. Idle views are swept every sweep.
func New(
	cfg config.DiscordConfig,
	sessions *session.Manager,
	svc *screen.Services,
	views *screen.Registry,
	sweep time.Duration,
	logger *slog.Logger,
	tp trace.TracerProvider,
) (*Bot, error) {
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("creating discord session: %w", err)
	}

	return &Bot{
		session:  s,
		cfg:      cfg,
		logger:   logger,
		handlers: commands.NewHandlers(sessions, svc, views, logger, tp),
		views:    views,
		sweep:    sweep,
	}, nil
}

// Start opens the Discord connection and registers slash commands. Views
// opened by interactions live until ctx is done.
func (b *Bot) Start(ctx context.Context) error {
	b.handlers.Bind(ctx)
	go b.views.Run(ctx, b.sweep)

	b.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		b.logger.InfoContext(ctx, "bot is ready", slog.String("user", s.State.User.Username))
	})

	b.session.AddHandler(b.handlers.InteractionCreate)

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("opening discord session: %w", err)
	}

	registered, err := b.session.ApplicationCommandBulkOverwrite(b.session.State.User.ID, b.cfg.GuildID, commands.SlashCommands())
	if err != nil {
		return fmt.Errorf("registering slash commands: %w", err)
	}
	b.cmds = registered

	b.logger.InfoContext(ctx, "slash commands registered", slog.Int("count", len(registered)))
	return nil
}

// Stop closes the Discord connection. Guild commands are removed so a
// stopped bot leaves no dead commands behind.
func (b *Bot) Stop() error {
	if b.cfg.GuildID != "" {
		for _, cmd := range b.cmds {
			if err := b.session.ApplicationCommandDelete(b.session.State.User.ID, b.cfg.GuildID, cmd.ID); err != nil {
				b.logger.Error("failed to delete command", slog.String("command", cmd.Name), slog.Any("error", err))
			}
		}
	}
	return b.session.Close()
}
