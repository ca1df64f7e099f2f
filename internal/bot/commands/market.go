package commands

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/jensholdgaard/hypebid-bot/internal/auction"
	"github.com/jensholdgaard/hypebid-bot/internal/domain"
	"github.com/jensholdgaard/hypebid-bot/internal/screen"
	"github.com/jensholdgaard/hypebid-bot/internal/session"
)

// dateLayout is how /sell takes its start and end, in UTC.
const dateLayout = "2006-01-02 15:04"

func key(uid, entity string) screen.Key {
	return screen.Key{User: uid, Entity: entity}
}

func (h *Handlers) auctionView(sess *session.Session, id string) *screen.AuctionView {
	return screen.Open(h.views, key(sess.DiscordID, "auction/"+id), func() *screen.AuctionView {
		return screen.NewAuctionView(h.base, h.svc, sess, id)
	})
}

func auctionReply(st screen.AuctionState, busy bool, notice string) reply {
	return reply{
		notice:     notice,
		embeds:     []*discordgo.MessageEmbed{auctionEmbed(st)},
		components: auctionComponents(st, busy),
	}
}

func (h *Handlers) auction(i *discordgo.InteractionCreate, id string) func(context.Context) (reply, error) {
	return func(ctx context.Context) (reply, error) {
		sess, err := h.session(ctx, i)
		if err != nil {
			return reply{}, err
		}
		v := h.auctionView(sess, strings.TrimSpace(id))
		st, err := v.Load(ctx)
		if err != nil {
			if domain.IsNotFound(err) {
				h.views.Close(key(sess.DiscordID, "auction/"+v.ID()))
			}
			return reply{}, err
		}
		return auctionReply(st, v.Busy(), ""), nil
	}
}

func (h *Handlers) showBid(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, id string) {
	sess, err := h.session(ctx, i)
	if err != nil {
		msg, _ := explain(err)
		respond(s, i, msg)
		return
	}
	label := "Amount"
	if st, ok := h.auctionView(sess, id).State(); ok {
		label = "Amount (minimum " + st.QuickBid + ")"
	}
	_ = showModal(s, i, customID(modalBid, id), auction.BidCustom.String(), input{id: "amount", label: label})
}

func (h *Handlers) placeBid(i *discordgo.InteractionCreate, id string, kind auction.BidKind, typed string) func(context.Context) (reply, error) {
	return func(ctx context.Context) (reply, error) {
		sess, err := h.session(ctx, i)
		if err != nil {
			return reply{}, err
		}
		v := h.auctionView(sess, id)
		res, err := v.PlaceBid(ctx, kind, typed)
		if err != nil {
			return reply{}, err
		}
		if res.Navigate.Target == screen.TargetTransaction {
			r, err := h.transaction(i, res.Navigate.ID)(ctx)
			r.notice = res.Message
			return r, err
		}
		st, _ := v.State()
		return auctionReply(st, v.Busy(), res.Message), nil
	}
}

func (h *Handlers) finish(i *discordgo.InteractionCreate, id string) func(context.Context) (reply, error) {
	return func(ctx context.Context) (reply, error) {
		sess, err := h.session(ctx, i)
		if err != nil {
			return reply{}, err
		}
		v := h.auctionView(sess, id)
		res, err := v.Finish(ctx)
		if err != nil {
			return reply{}, err
		}
		st, _ := v.State()
		return auctionReply(st, v.Busy(), res.Message), nil
	}
}

func (h *Handlers) catalog(i *discordgo.InteractionCreate, category string) func(context.Context) (reply, error) {
	return func(ctx context.Context) (reply, error) {
		sess, err := h.session(ctx, i)
		if err != nil {
			return reply{}, err
		}
		v := screen.Open(h.views, key(sess.DiscordID, "catalog"), func() *screen.List[[]auction.Segment] {
			return screen.NewCatalog(h.base, h.svc, sess)
		})
		segments, err := v.Load(ctx)
		if err != nil {
			return reply{}, err
		}
		names := make([]string, len(segments))
		for n, seg := range segments {
			names[n] = seg.Name
		}
		name := category
		if name == "" {
			name = auction.SegmentAll
		}
		seg := auction.Segment{Name: name}
		if found := auction.Find(segments, name); found != nil {
			seg = *found
		}
		return reply{embeds: []*discordgo.MessageEmbed{catalogEmbed(seg, names)}}, nil
	}
}

func (h *Handlers) bidHistory(i *discordgo.InteractionCreate) func(context.Context) (reply, error) {
	return func(ctx context.Context) (reply, error) {
		sess, err := h.session(ctx, i)
		if err != nil {
			return reply{}, err
		}
		v := screen.Open(h.views, key(sess.DiscordID, "bids"), func() *screen.List[[]domain.Bid] {
			return screen.NewBidHistory(h.base, h.svc, sess)
		})
		bids, err := v.Load(ctx)
		if err != nil {
			return reply{}, err
		}
		return reply{embeds: []*discordgo.MessageEmbed{bidsEmbed(bids)}}, nil
	}
}

func (h *Handlers) selling(i *discordgo.InteractionCreate) func(context.Context) (reply, error) {
	return func(ctx context.Context) (reply, error) {
		sess, err := h.session(ctx, i)
		if err != nil {
			return reply{}, err
		}
		v := screen.Open(h.views, key(sess.DiscordID, "selling"), func() *screen.List[[]screen.Listing] {
			return screen.NewSelling(h.base, h.svc, sess)
		})
		listings, err := v.Load(ctx)
		if err != nil {
			return reply{}, err
		}
		return reply{embeds: []*discordgo.MessageEmbed{sellingEmbed(listings)}}, nil
	}
}

func (h *Handlers) sell(i *discordgo.InteractionCreate, opts commandOptions) func(context.Context) (reply, error) {
	return func(ctx context.Context) (reply, error) {
		sess, err := h.session(ctx, i)
		if err != nil {
			return reply{}, err
		}
		draft, err := draftOf(opts)
		if err != nil {
			return reply{}, err
		}
		img, err := h.download(ctx, opts.attachment("image"))
		if err != nil {
			return reply{}, err
		}
		if img != nil {
			draft.Images = []domain.Upload{*img}
		}

		v := screen.Open(h.views, key(sess.DiscordID, "sell"), func() *screen.CreateView {
			return screen.NewCreateView(h.base, h.svc, sess)
		})
		res, err := v.Submit(ctx, draft)
		if err != nil {
			return reply{}, err
		}
		if res.Navigate.Target != screen.TargetAuction {
			return reply{notice: res.Message}, nil
		}
		r, err := h.auction(i, res.Navigate.ID)(ctx)
		r.notice = res.Message
		return r, err
	}
}

// draftOf reads the /sell options. Dates that do not parse are reported
// before the draft is validated.
func draftOf(opts commandOptions) (auction.Draft, error) {
	d := auction.Draft{
		Name:         strings.TrimSpace(opts.str("name")),
		Description:  strings.TrimSpace(opts.str("description")),
		Location:     strings.TrimSpace(opts.str("location")),
		OpeningPrice: opts.str("opening-price"),
		BuyNowPrice:  opts.str("buy-now-price"),
		MinimumBid:   opts.str("increment"),
		Category:     domain.AuctionCategory(opts.str("category")),
	}
	var err error
	if d.Start, err = parseDate(opts.str("start")); err != nil {
		return auction.Draft{}, err
	}
	if d.End, err = parseDate(opts.str("end")); err != nil {
		return auction.Draft{}, err
	}
	return d, nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, domain.Invalidf("Dates must look like %s", dateLayout)
	}
	return t, nil
}
