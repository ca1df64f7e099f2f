package commands

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/jensholdgaard/hypebid-bot/internal/domain"
	"github.com/jensholdgaard/hypebid-bot/internal/screen"
	"github.com/jensholdgaard/hypebid-bot/internal/session"
	"github.com/jensholdgaard/hypebid-bot/internal/withdraw"
)

func (h *Handlers) withdrawView(sess *session.Session) *screen.WithdrawView {
	return screen.Open(h.views, key(sess.DiscordID, "withdraw"), func() *screen.WithdrawView {
		return screen.NewWithdrawView(h.base, h.svc, sess)
	})
}

func withdrawReply(st screen.WithdrawState, notice string) reply {
	return reply{
		notice:     notice,
		embeds:     []*discordgo.MessageEmbed{withdrawEmbed(st)},
		components: withdrawComponents(),
	}
}

func (h *Handlers) withdrawals(i *discordgo.InteractionCreate) func(context.Context) (reply, error) {
	return func(ctx context.Context) (reply, error) {
		sess, err := h.session(ctx, i)
		if err != nil {
			return reply{}, err
		}
		st, err := h.withdrawView(sess).Load(ctx)
		if err != nil {
			return reply{}, err
		}
		return withdrawReply(st, ""), nil
	}
}

func (h *Handlers) showWithdraw(s *discordgo.Session, i *discordgo.InteractionCreate) {
	_ = showModal(s, i, modalWithdraw, "Request withdrawal",
		input{id: "amount", label: "Amount (minimum " + domain.FormatRupiah(withdraw.MinimumAmount) + ")"},
		input{id: "bank", label: "Bank"},
		input{id: "account", label: "Account number"},
	)
}

func (h *Handlers) requestWithdraw(i *discordgo.InteractionCreate, v map[string]string) func(context.Context) (reply, error) {
	return func(ctx context.Context) (reply, error) {
		sess, err := h.session(ctx, i)
		if err != nil {
			return reply{}, err
		}
		view := h.withdrawView(sess)
		res, err := view.Request(ctx, withdraw.Form{Amount: v["amount"], Bank: v["bank"], Account: v["account"]})
		if err != nil {
			return reply{}, err
		}
		st, _ := view.State()
		return withdrawReply(st, res.Message), nil
	}
}

func (h *Handlers) dashboard(i *discordgo.InteractionCreate) func(context.Context) (reply, error) {
	return func(ctx context.Context) (reply, error) {
		sess, err := h.session(ctx, i)
		if err != nil {
			return reply{}, err
		}
		v := screen.Open(h.views, key(sess.DiscordID, "dashboard"), func() *screen.List[screen.Counts] {
			return screen.NewDashboard(h.base, h.svc, sess)
		})
		counts, err := v.Load(ctx)
		if err != nil {
			return reply{}, err
		}
		return reply{embeds: []*discordgo.MessageEmbed{dashboardEmbed(counts)}}, nil
	}
}
