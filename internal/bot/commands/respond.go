package commands

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/jensholdgaard/hypebid-bot/internal/domain"
	"github.com/jensholdgaard/hypebid-bot/internal/screen"
	"github.com/jensholdgaard/hypebid-bot/internal/session"
	"github.com/jensholdgaard/hypebid-bot/internal/telemetry"
)

// Messages shown for errors that carry no server message.
const (
	msgSessionExpired = "Your session has expired. Please /login again."
)

// reply is the rendering of a view.
type reply struct {
	// notice is the server's confirmation of an action, shown once.
	notice     string
	embeds     []*discordgo.MessageEmbed
	components []discordgo.MessageComponent
}

// explain returns the text to show for err, or false when the failure is
// silent: stale or closed views, actions that are no longer offered and
// repeated submissions while one is pending.
func explain(err error) (string, bool) {
	var re *domain.RemoteError
	switch {
	case errors.Is(err, screen.ErrStale),
		errors.Is(err, screen.ErrClosed),
		errors.Is(err, screen.ErrUnavailable),
		errors.Is(err, screen.ErrBusy),
		errors.Is(err, context.Canceled):
		return "", false
	case errors.Is(err, session.ErrSignedOut):
		return session.MsgSignedOut, true
	case errors.As(err, &re) && re.Unauthorized():
		return msgSessionExpired, true
	default:
		return domain.UserMessage(err), true
	}
}

// updates reports whether i edits the message it came from instead of
// opening a new one.
func updates(i *discordgo.InteractionCreate) bool {
	switch i.Type {
	case discordgo.InteractionMessageComponent:
		return true
	case discordgo.InteractionModalSubmit:
		return i.Message != nil
	default:
		return false
	}
}

// run acknowledges i, renders fn's reply and reports fn's error. Every
// reply is ephemeral.
func (h *Handlers) run(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, fn func(context.Context) (reply, error)) {
	update := updates(i)
	ack := discordgo.InteractionResponseDeferredChannelMessageWithSource
	if update {
		ack = discordgo.InteractionResponseDeferredMessageUpdate
	}
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: ack,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	}); err != nil {
		h.logger.ErrorContext(ctx, "acknowledging interaction failed", slog.Any("error", err))
		return
	}

	r, err := fn(ctx)
	if err != nil {
		h.fail(ctx, s, i, update, err)
		return
	}

	if r.embeds == nil {
		r.embeds = []*discordgo.MessageEmbed{}
	}
	if r.components == nil {
		r.components = []discordgo.MessageComponent{}
	}
	edit := &discordgo.WebhookEdit{Embeds: &r.embeds, Components: &r.components}
	if !update || len(r.embeds) == 0 {
		content := r.notice
		edit.Content = &content
	}
	if _, err := s.InteractionResponseEdit(i.Interaction, edit); err != nil {
		h.logger.ErrorContext(ctx, "editing interaction response failed", slog.Any("error", err))
		return
	}
	if update && r.notice != "" && len(r.embeds) > 0 {
		h.followup(ctx, s, i, r.notice)
	}
}

func (h *Handlers) fail(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, update bool, err error) {
	var re *domain.RemoteError
	if errors.As(err, &re) && re.Unauthorized() {
		h.expire(ctx, userID(i))
	}

	msg, show := explain(err)
	level := slog.LevelWarn
	if !show || domain.IsValidation(err) {
		level = slog.LevelDebug
	}
	telemetry.LogWithTrace(ctx, h.logger).Log(ctx, level, "interaction failed",
		slog.String("user", userID(i)),
		slog.Any("error", err),
	)
	if !show {
		if !update {
			// Clear the deferred "thinking" placeholder.
			if err := s.InteractionResponseDelete(i.Interaction); err != nil {
				h.logger.ErrorContext(ctx, "deleting interaction response failed", slog.Any("error", err))
			}
		}
		return
	}
	if update {
		h.followup(ctx, s, i, msg)
		return
	}
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &msg}); err != nil {
		h.logger.ErrorContext(ctx, "editing interaction response failed", slog.Any("error", err))
	}
}

func (h *Handlers) followup(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, msg string) {
	if _, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content: msg,
		Flags:   discordgo.MessageFlagsEphemeral,
	}); err != nil {
		h.logger.ErrorContext(ctx, "sending followup failed", slog.Any("error", err))
	}
}

// respond answers i immediately with an ephemeral message.
func respond(s *discordgo.Session, i *discordgo.InteractionCreate, msg string) {
	_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: msg,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// userID returns the invoking user in guilds and DMs alike.
func userID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
