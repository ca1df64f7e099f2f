package commands

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/jensholdgaard/hypebid-bot/internal/auction"
	"github.com/jensholdgaard/hypebid-bot/internal/domain"
	"github.com/jensholdgaard/hypebid-bot/internal/screen"
	"github.com/jensholdgaard/hypebid-bot/internal/transaction"
)

// maxListed caps list embeds; Discord allows 25 fields per embed.
const maxListed = 25

var toneColors = map[domain.Tone]int{
	domain.ToneGray:   0x9CA3AF,
	domain.ToneYellow: 0xFACC15,
	domain.ToneSky:    0x38BDF8,
	domain.ToneBlue:   0x3B82F6,
	domain.TonePurple: 0xA855F7,
	domain.ToneGreen:  0x22C55E,
	domain.ToneRed:    0xEF4444,
	domain.ToneBlack:  0x111827,
	domain.ToneBrand:  0xF97316,
}

func color(t domain.Tone) int {
	if c, ok := toneColors[t]; ok {
		return c
	}
	return toneColors[domain.ToneGray]
}

func emphasisTone(e auction.Emphasis) domain.Tone {
	switch e {
	case auction.EmphasisActionable:
		return domain.ToneBrand
	case auction.EmphasisInformational:
		return domain.ToneSky
	case auction.EmphasisTerminal:
		return domain.ToneBlack
	default:
		return domain.ToneGray
	}
}

func field(name, value string, inline bool) *discordgo.MessageEmbedField {
	if value == "" {
		value = "-"
	}
	return &discordgo.MessageEmbedField{Name: name, Value: value, Inline: inline}
}

func row(buttons ...discordgo.MessageComponent) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{discordgo.ActionsRow{Components: buttons}}
}

// outcomeLabel is the text of the primary button. The residual outcome has
// no label and shows its status name.
func outcomeLabel(o auction.Outcome) string {
	if o.Label != "" {
		return o.Label
	}
	return o.Status.String()
}

func auctionEmbed(st screen.AuctionState) *discordgo.MessageEmbed {
	a := st.Auction
	e := &discordgo.MessageEmbed{
		Title:       a.Name,
		Description: a.Description,
		Color:       color(emphasisTone(st.Outcome.Emphasis)),
		Fields: []*discordgo.MessageEmbedField{
			field("Status", outcomeLabel(st.Outcome), true),
			field("Phase", st.Phase.Label(), true),
			field("Category", string(a.Category), true),
			field("Highest bid", domain.FormatRupiah(a.HighestBid()), true),
			field("Minimum next bid", st.QuickBid, true),
			field("Buy now", st.BuyNow, true),
			field("Start", domain.FormatDate(a.Start), true),
			field("End", domain.FormatDate(a.End), true),
			field("Location", a.Location, true),
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Auction " + a.ID},
	}
	if len(a.Images) > 0 {
		e.Image = &discordgo.MessageEmbedImage{URL: a.Images[0]}
	}
	return e
}

func auctionComponents(st screen.AuctionState, busy bool) []discordgo.MessageComponent {
	id := st.Auction.ID
	refresh := discordgo.Button{Label: "Refresh", Style: discordgo.SecondaryButton, CustomID: customID(actionAuctionRefresh, id)}

	o := st.Outcome
	switch o.Action {
	case auction.ActionOpenBidForm:
		return row(
			discordgo.Button{Label: "Quick Bid " + st.QuickBid, Style: discordgo.PrimaryButton, CustomID: customID(actionBidQuick, id), Disabled: busy},
			discordgo.Button{Label: "Buy Now " + st.BuyNow, Style: discordgo.SuccessButton, CustomID: customID(actionBidBuyNow, id), Disabled: busy},
			discordgo.Button{Label: auction.BidCustom.String(), Style: discordgo.SecondaryButton, CustomID: customID(actionBidCustom, id), Disabled: busy},
			refresh,
		)
	case auction.ActionFinalize:
		return row(
			discordgo.Button{Label: o.Label, Style: discordgo.DangerButton, CustomID: customID(actionFinish, id), Disabled: busy},
			refresh,
		)
	case auction.ActionOpenPayment, auction.ActionOpenTransaction:
		return row(
			discordgo.Button{Label: o.Label, Style: discordgo.PrimaryButton, CustomID: customID(actionTxOpen, o.TransactionID)},
			refresh,
		)
	case auction.ActionStartKYC:
		return row(
			discordgo.Button{Label: o.Label, Style: discordgo.PrimaryButton, CustomID: actionKYCInfo},
			refresh,
		)
	default:
		return row(
			discordgo.Button{Label: outcomeLabel(o), Style: discordgo.SecondaryButton, CustomID: customID("noop", id), Disabled: true},
			refresh,
		)
	}
}

func transactionEmbed(st screen.TransactionState) *discordgo.MessageEmbed {
	tx := st.Transaction
	name := "Transaction"
	if tx.Auction != nil {
		name = tx.Auction.Name
	}
	fields := []*discordgo.MessageEmbedField{
		field("Status", string(tx.Status), true),
		field("Amount", domain.FormatRupiah(tx.Amount), true),
		field("Created", domain.FormatDate(tx.CreatedAt), true),
		field("Shipping address", tx.ShippingAddress(), false),
	}
	if st.Note != "" {
		fields = append(fields, field("Note", st.Note, false))
	}
	if st.Overdue {
		fields = append(fields, field("Payment", "The payment window has passed", false))
	}
	return &discordgo.MessageEmbed{
		Title:  name,
		Color:  color(st.Outcome.Tone),
		Fields: fields,
		Footer: &discordgo.MessageEmbedFooter{Text: "Transaction " + tx.ID},
	}
}

func transactionComponents(st screen.TransactionState, link *domain.PaymentLink) []discordgo.MessageComponent {
	id := st.Transaction.ID
	o := st.Outcome
	var primary discordgo.Button
	switch o.Action {
	case transaction.ActionPay:
		primary = discordgo.Button{Label: o.Label, Style: discordgo.SuccessButton, CustomID: customID(actionTxPay, id)}
	case transaction.ActionDeliver:
		primary = discordgo.Button{Label: o.Label, Style: discordgo.PrimaryButton, CustomID: customID(actionTxDeliver, id)}
	case transaction.ActionComplete:
		primary = discordgo.Button{Label: o.Label, Style: discordgo.PrimaryButton, CustomID: customID(actionTxComplete, id)}
	default:
		primary = discordgo.Button{Label: o.Label, Style: discordgo.SecondaryButton, CustomID: customID("noop", id), Disabled: true}
	}
	buttons := []discordgo.MessageComponent{primary}
	if link != nil && link.RedirectURL != "" {
		buttons = append(buttons, discordgo.Button{Label: "Open payment page", Style: discordgo.LinkButton, URL: link.RedirectURL})
	}
	if st.Transaction.AuctionID != "" {
		buttons = append(buttons, discordgo.Button{Label: "View auction", Style: discordgo.SecondaryButton, CustomID: customID(actionAuctionRefresh, st.Transaction.AuctionID)})
	}
	return row(buttons...)
}

func catalogEmbed(seg auction.Segment, names []string) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title:       "Auctions · " + seg.Name,
		Description: "Segments: " + strings.Join(names, ", "),
		Color:       color(domain.ToneBrand),
	}
	if len(seg.Auctions) == 0 {
		e.Description += "\n\nNo auctions yet."
	}
	for i, a := range seg.Auctions {
		if i == maxListed {
			break
		}
		e.Fields = append(e.Fields, field(a.Name, fmt.Sprintf("%s · ends %s\n`/auction id:%s`",
			domain.FormatRupiah(a.HighestBid()), domain.FormatDate(a.End), a.ID), false))
	}
	return e
}

func sellingEmbed(listings []screen.Listing) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{Title: "My auctions", Color: color(domain.ToneBrand)}
	if len(listings) == 0 {
		e.Description = "You have not listed anything yet. Use /sell to create an auction."
	}
	for i, l := range listings {
		if i == maxListed {
			break
		}
		e.Fields = append(e.Fields, field(l.Auction.Name, fmt.Sprintf("**%s** · %s\n`/auction id:%s`",
			l.Badge.Label, domain.FormatRupiah(l.Auction.HighestBid()), l.Auction.ID), false))
	}
	return e
}

func bidsEmbed(bids []domain.Bid) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{Title: "My bids", Color: color(domain.ToneBlue)}
	if len(bids) == 0 {
		e.Description = "You have not placed any bids yet."
	}
	for i, b := range bids {
		if i == maxListed {
			break
		}
		name := b.AuctionID
		if b.Auction != nil {
			name = b.Auction.Name
		}
		e.Fields = append(e.Fields, field(name, fmt.Sprintf("%s · %s\n`/auction id:%s`",
			domain.FormatRupiah(b.Amount), domain.FormatDate(b.CreatedAt), b.AuctionID), false))
	}
	return e
}

func transactionsEmbed(seg transaction.Segment) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title:       "Transactions · " + seg.Name,
		Description: "Segments: " + strings.Join(transaction.SegmentOrder, ", "),
		Color:       color(domain.ToneBrand),
	}
	if len(seg.Items) == 0 {
		e.Description += "\n\nNo transactions."
	}
	for i, tx := range seg.Items {
		if i == maxListed {
			break
		}
		name := "Transaction"
		if tx.Auction != nil {
			name = tx.Auction.Name
		}
		e.Fields = append(e.Fields, field(name, fmt.Sprintf("**%s** · %s\n`/transaction id:%s`",
			tx.Status, domain.FormatRupiah(tx.Amount), tx.ID), false))
	}
	return e
}

func dashboardEmbed(c screen.Counts) *discordgo.MessageEmbed {
	p := c.Profile
	return &discordgo.MessageEmbed{
		Title: p.Name,
		Color: color(domain.ToneBrand),
		Fields: []*discordgo.MessageEmbedField{
			field("Balance", domain.FormatRupiah(p.Balance), true),
			field("Pending", domain.FormatRupiah(p.PendingBalance), true),
			field("Disbursed", domain.FormatRupiah(p.DisbursedBalance), true),
			field("Bids", fmt.Sprint(c.Bids), true),
			field("Transactions", fmt.Sprint(c.Transactions), true),
			field("Auctions", fmt.Sprint(c.Auctions), true),
		},
	}
}

func withdrawEmbed(st screen.WithdrawState) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title:       "Withdrawals",
		Description: "Available balance: **" + domain.FormatRupiah(st.Balance) + "**",
		Color:       color(domain.ToneGreen),
	}
	for i, p := range st.Payouts {
		if i == maxListed {
			break
		}
		w := p.Withdraw
		e.Fields = append(e.Fields, field(domain.FormatRupiah(w.Amount),
			fmt.Sprintf("**%s** · %s %s · %s", p.Badge.Label, w.Bank, w.Account, domain.FormatDate(w.CreatedAt)), false))
	}
	return e
}

func withdrawComponents() []discordgo.MessageComponent {
	return row(discordgo.Button{Label: "Request withdrawal", Style: discordgo.PrimaryButton, CustomID: actionWithdrawNew})
}

func profileEmbed(st screen.ProfileState) *discordgo.MessageEmbed {
	p := st.Profile
	e := &discordgo.MessageEmbed{
		Title:       p.Name,
		Description: fmt.Sprintf("**%s**\n%s", st.Badge.Label, st.Badge.Description),
		Color:       color(st.Badge.Tone),
		Fields: []*discordgo.MessageEmbedField{
			field("Email", p.Email, true),
			field("Phone", p.Phone, true),
			field("Balance", domain.FormatRupiah(p.Balance), true),
		},
	}
	if p.Image != nil && *p.Image != "" {
		e.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: *p.Image}
	}
	if st.Badge.CanVerify {
		e.Footer = &discordgo.MessageEmbedFooter{Text: "Use /kyc with a photo of your ID card to verify."}
	}
	return e
}

func profileComponents(st screen.ProfileState) []discordgo.MessageComponent {
	return row(
		discordgo.Button{Label: "Edit profile", Style: discordgo.PrimaryButton, CustomID: actionProfileEdit},
		discordgo.Button{Label: "Change password", Style: discordgo.SecondaryButton, CustomID: actionProfilePassword},
		discordgo.Button{Label: "Remove picture", Style: discordgo.SecondaryButton, CustomID: actionProfileUnpic, Disabled: st.Profile.Image == nil},
		discordgo.Button{Label: "Sign out", Style: discordgo.DangerButton, CustomID: actionSignOut},
	)
}
