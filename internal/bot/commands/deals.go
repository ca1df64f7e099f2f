package commands

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/jensholdgaard/hypebid-bot/internal/domain"
	"github.com/jensholdgaard/hypebid-bot/internal/screen"
	"github.com/jensholdgaard/hypebid-bot/internal/session"
	"github.com/jensholdgaard/hypebid-bot/internal/transaction"
)

func (h *Handlers) transactionView(sess *session.Session, id string) *screen.TransactionView {
	return screen.Open(h.views, key(sess.DiscordID, "transaction/"+id), func() *screen.TransactionView {
		return screen.NewTransactionView(h.base, h.svc, sess, id)
	})
}

func transactionReply(st screen.TransactionState, link *domain.PaymentLink, notice string) reply {
	return reply{
		notice:     notice,
		embeds:     []*discordgo.MessageEmbed{transactionEmbed(st)},
		components: transactionComponents(st, link),
	}
}

func (h *Handlers) transaction(i *discordgo.InteractionCreate, id string) func(context.Context) (reply, error) {
	return func(ctx context.Context) (reply, error) {
		sess, err := h.session(ctx, i)
		if err != nil {
			return reply{}, err
		}
		v := h.transactionView(sess, strings.TrimSpace(id))
		st, err := v.Load(ctx)
		if err != nil {
			if domain.IsNotFound(err) {
				h.views.Close(key(sess.DiscordID, "transaction/"+v.ID()))
			}
			return reply{}, err
		}
		return transactionReply(st, nil, ""), nil
	}
}

func (h *Handlers) showPay(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, id string) {
	sess, err := h.session(ctx, i)
	if err != nil {
		msg, _ := explain(err)
		respond(s, i, msg)
		return
	}
	address := sess.Location
	if st, ok := h.transactionView(sess, id).State(); ok && st.Transaction.ShippingAddress() != "" {
		address = st.Transaction.ShippingAddress()
	}
	_ = showModal(s, i, customID(modalPay, id), "Payment",
		input{id: "address", label: "Shipping address", value: address, long: true, optional: true},
	)
}

func (h *Handlers) pay(i *discordgo.InteractionCreate, id, address string) func(context.Context) (reply, error) {
	return func(ctx context.Context) (reply, error) {
		sess, err := h.session(ctx, i)
		if err != nil {
			return reply{}, err
		}
		v := h.transactionView(sess, id)
		res, err := v.Pay(ctx, address)
		if err != nil {
			return reply{}, err
		}
		st, _ := v.State()
		notice := res.Message
		if res.Link.RedirectURL == "" {
			notice = strings.TrimSpace(notice + "\nPayment token: " + res.Link.SnapToken)
		}
		return transactionReply(st, &res.Link, notice), nil
	}
}

func (h *Handlers) markDelivered(i *discordgo.InteractionCreate, id string) func(context.Context) (reply, error) {
	return h.transition(i, id, (*screen.TransactionView).MarkDelivered)
}

func (h *Handlers) markCompleted(i *discordgo.InteractionCreate, id string) func(context.Context) (reply, error) {
	return h.transition(i, id, (*screen.TransactionView).MarkCompleted)
}

func (h *Handlers) transition(i *discordgo.InteractionCreate, id string, step func(*screen.TransactionView, context.Context) (screen.Result, error)) func(context.Context) (reply, error) {
	return func(ctx context.Context) (reply, error) {
		sess, err := h.session(ctx, i)
		if err != nil {
			return reply{}, err
		}
		v := h.transactionView(sess, id)
		res, err := step(v, ctx)
		if err != nil {
			return reply{}, err
		}
		st, _ := v.State()
		return transactionReply(st, nil, res.Message), nil
	}
}

func (h *Handlers) transactions(i *discordgo.InteractionCreate, status string) func(context.Context) (reply, error) {
	return func(ctx context.Context) (reply, error) {
		sess, err := h.session(ctx, i)
		if err != nil {
			return reply{}, err
		}
		v := screen.Open(h.views, key(sess.DiscordID, "transactions"), func() *screen.List[[]transaction.Segment] {
			return screen.NewTransactions(h.base, h.svc, sess)
		})
		segments, err := v.Load(ctx)
		if err != nil {
			return reply{}, err
		}
		if status == "" {
			status = transaction.SegmentAll
		}
		seg := transaction.Segment{Name: status}
		for _, s := range segments {
			if s.Name == status {
				seg = s
			}
		}
		return reply{embeds: []*discordgo.MessageEmbed{transactionsEmbed(seg)}}, nil
	}
}
