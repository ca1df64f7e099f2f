// Package commands turns Discord interactions into view operations and
// renders the resulting state as embeds and buttons.
package commands

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jensholdgaard/hypebid-bot/internal/auction"
	"github.com/jensholdgaard/hypebid-bot/internal/domain"
	"github.com/jensholdgaard/hypebid-bot/internal/screen"
	"github.com/jensholdgaard/hypebid-bot/internal/session"
	"github.com/jensholdgaard/hypebid-bot/internal/transaction"
)

// Handlers process Discord interactions.
type Handlers struct {
	sessions *session.Manager
	svc      *screen.Services
	views    *screen.Registry
	fetch    *http.Client
	logger   *slog.Logger
	tracer   trace.Tracer

	// base is the lifetime of every view; set by Bind.
	base context.Context
}

// NewHandlers creates new command handlers.
func NewHandlers(sessions *session.Manager, svc *screen.Services, views *screen.Registry, logger *slog.Logger, tp trace.TracerProvider) *Handlers {
	return &Handlers{
		sessions: sessions,
		svc:      svc,
		views:    views,
		fetch:    &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport, otelhttp.WithTracerProvider(tp))},
		logger:   logger,
		tracer:   tp.Tracer("github.com/jensholdgaard/hypebid-bot/internal/bot/commands"),
		base:     context.Background(),
	}
}

// Bind ties the views opened by the handlers to ctx. It must be called
// before the handlers receive interactions.
func (h *Handlers) Bind(ctx context.Context) {
	h.base = ctx
}

func categoryChoices() []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(domain.Categories))
	for _, c := range domain.Categories {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: string(c), Value: string(c)})
	}
	return choices
}

func statusChoices() []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(transaction.SegmentOrder))
	for _, name := range transaction.SegmentOrder {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: name, Value: name})
	}
	return choices
}

func stringOption(name, description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        name,
		Description: description,
		Required:    required,
	}
}

func imageOption(description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionAttachment,
		Name:        "image",
		Description: description,
		Required:    required,
	}
}

// SlashCommands returns the slash command definitions.
func SlashCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{Name: "login", Description: "Sign in to HypeBid"},
		{Name: "register", Description: "Create a HypeBid account"},
		{Name: "logout", Description: "Sign out of HypeBid"},
		{
			Name:        "auctions",
			Description: "Browse ongoing auctions",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "category",
					Description: "Only show one category",
					Choices:     categoryChoices(),
				},
			},
		},
		{
			Name:        "auction",
			Description: "Show an auction and bid on it",
			Options:     []*discordgo.ApplicationCommandOption{stringOption("id", "Auction ID", true)},
		},
		{Name: "bids", Description: "List your bids"},
		{Name: "selling", Description: "List the auctions you created"},
		{
			Name:        "sell",
			Description: "Create an auction",
			Options: []*discordgo.ApplicationCommandOption{
				stringOption("name", "Item name", true),
				stringOption("description", "Item description", true),
				stringOption("location", "Where the item ships from", true),
				stringOption("opening-price", "Opening price in Rupiah", true),
				stringOption("buy-now-price", "Buy now price in Rupiah", true),
				stringOption("increment", "Minimum bid increment in Rupiah", true),
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "category",
					Description: "Item category",
					Required:    true,
					Choices:     categoryChoices(),
				},
				stringOption("start", "Start, e.g. 2025-06-15 18:00 (UTC)", true),
				stringOption("end", "End, e.g. 2025-06-20 18:00 (UTC)", true),
				imageOption("Item photo", true),
			},
		},
		{
			Name:        "transactions",
			Description: "List your purchases",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "status",
					Description: "Only show one status",
					Choices:     statusChoices(),
				},
			},
		},
		{
			Name:        "transaction",
			Description: "Show a transaction",
			Options:     []*discordgo.ApplicationCommandOption{stringOption("id", "Transaction ID", true)},
		},
		{Name: "dashboard", Description: "Show your balance and activity"},
		{Name: "withdraw", Description: "Show and request withdrawals"},
		{Name: "profile", Description: "Show and edit your profile"},
		{
			Name:        "profile-picture",
			Description: "Change your profile picture",
			Options:     []*discordgo.ApplicationCommandOption{imageOption("New picture", true)},
		},
		{
			Name:        "kyc",
			Description: "Show or submit your identity verification",
			Options:     []*discordgo.ApplicationCommandOption{imageOption("Photo of your ID card", false)},
		},
	}
}

// InteractionCreate handles slash commands, button clicks and modal
// submissions.
func (h *Handlers) InteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		name := i.ApplicationCommandData().Name
		ctx, span := h.tracer.Start(context.Background(), "InteractionCreate",
			trace.WithAttributes(attribute.String("command", name)),
		)
		defer span.End()
		h.command(ctx, s, i, name)

	case discordgo.InteractionMessageComponent:
		action, id := parseCustomID(i.MessageComponentData().CustomID)
		ctx, span := h.tracer.Start(context.Background(), "InteractionCreate",
			trace.WithAttributes(attribute.String("component", action)),
		)
		defer span.End()
		h.component(ctx, s, i, action, id)

	case discordgo.InteractionModalSubmit:
		data := i.ModalSubmitData()
		modal, id := parseCustomID(data.CustomID)
		ctx, span := h.tracer.Start(context.Background(), "InteractionCreate",
			trace.WithAttributes(attribute.String("modal", modal)),
		)
		defer span.End()
		h.modal(ctx, s, i, modal, id, modalValues(data.Components))
	}
}

func (h *Handlers) command(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, name string) {
	opts := options(i)
	switch name {
	case "login":
		h.showLogin(s, i)
	case "register":
		h.showRegister(s, i)
	case "logout":
		h.run(ctx, s, i, h.logout(i))
	case "auctions":
		h.run(ctx, s, i, h.catalog(i, opts.str("category")))
	case "auction":
		h.run(ctx, s, i, h.auction(i, opts.str("id")))
	case "bids":
		h.run(ctx, s, i, h.bidHistory(i))
	case "selling":
		h.run(ctx, s, i, h.selling(i))
	case "sell":
		h.run(ctx, s, i, h.sell(i, opts))
	case "transactions":
		h.run(ctx, s, i, h.transactions(i, opts.str("status")))
	case "transaction":
		h.run(ctx, s, i, h.transaction(i, opts.str("id")))
	case "dashboard":
		h.run(ctx, s, i, h.dashboard(i))
	case "withdraw":
		h.run(ctx, s, i, h.withdrawals(i))
	case "profile":
		h.run(ctx, s, i, h.profile(i))
	case "profile-picture":
		h.run(ctx, s, i, h.changePicture(i, opts))
	case "kyc":
		h.run(ctx, s, i, h.kyc(i, opts))
	default:
		respond(s, i, "Unknown command")
	}
}

func (h *Handlers) component(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, action, id string) {
	switch action {
	case actionAuctionRefresh:
		h.run(ctx, s, i, h.auction(i, id))
	case actionBidQuick:
		h.run(ctx, s, i, h.placeBid(i, id, auction.BidQuick, ""))
	case actionBidBuyNow:
		h.run(ctx, s, i, h.placeBid(i, id, auction.BidBuyNow, ""))
	case actionBidCustom:
		h.showBid(ctx, s, i, id)
	case actionFinish:
		h.run(ctx, s, i, h.finish(i, id))
	case actionKYCInfo:
		respond(s, i, "Use /kyc with a photo of your ID card to verify your identity.")
	case actionTxOpen:
		h.run(ctx, s, i, h.transaction(i, id))
	case actionTxPay:
		h.showPay(ctx, s, i, id)
	case actionTxDeliver:
		h.run(ctx, s, i, h.markDelivered(i, id))
	case actionTxComplete:
		h.run(ctx, s, i, h.markCompleted(i, id))
	case actionProfileEdit:
		h.showEditProfile(ctx, s, i)
	case actionProfilePassword:
		h.showChangePassword(s, i)
	case actionProfileUnpic:
		h.run(ctx, s, i, h.removePicture(i))
	case actionSignOut:
		h.run(ctx, s, i, h.signOut(i))
	case actionWithdrawNew:
		h.showWithdraw(s, i)
	default:
		respond(s, i, "This button is no longer available.")
	}
}

func (h *Handlers) modal(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, modal, id string, values map[string]string) {
	switch modal {
	case modalLogin:
		h.run(ctx, s, i, h.login(i, values))
	case modalRegister:
		h.run(ctx, s, i, h.register(i, values))
	case modalBid:
		h.run(ctx, s, i, h.placeBid(i, id, auction.BidCustom, values["amount"]))
	case modalPay:
		h.run(ctx, s, i, h.pay(i, id, values["address"]))
	case modalProfile:
		h.run(ctx, s, i, h.editProfile(i, values))
	case modalPassword:
		h.run(ctx, s, i, h.changePassword(i, values))
	case modalWithdraw:
		h.run(ctx, s, i, h.requestWithdraw(i, values))
	default:
		respond(s, i, "This form is no longer available.")
	}
}

// session returns the open session of the invoking user.
func (h *Handlers) session(ctx context.Context, i *discordgo.InteractionCreate) (*session.Session, error) {
	return h.sessions.Get(ctx, userID(i))
}

// expire drops a session the API no longer accepts.
func (h *Handlers) expire(ctx context.Context, discordID string) {
	if err := h.sessions.Close(ctx, discordID); err != nil {
		h.logger.WarnContext(ctx, "closing expired session failed", slog.Any("error", err))
	}
	h.views.CloseUser(discordID)
}
