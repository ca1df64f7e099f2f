// Package transaction resolves the transaction detail screen: the primary
// button, the explanatory note and the guards in front of each transition.
package transaction

import (
	"fmt"
	"time"

	"github.com/jensholdgaard/hypebid-bot/internal/domain"
)

// Action is the transition the detail screen offers.
type Action int

const (
	ActionNone Action = iota
	ActionPay
	ActionDeliver
	ActionComplete
)

func (a Action) String() string {
	switch a {
	case ActionPay:
		return "pay"
	case ActionDeliver:
		return "deliver"
	case ActionComplete:
		return "complete"
	default:
		return "none"
	}
}

// Outcome is the resolved primary button of a transaction.
type Outcome struct {
	Label  string
	Tone   domain.Tone
	Action Action
}

// Enabled reports whether the outcome offers a transition.
func (o Outcome) Enabled() bool { return o.Action != ActionNone }

// UnknownStatus is the label for a missing or unrecognised transaction.
const UnknownStatus = "Unknown Status"

type sides struct {
	seller Outcome
	buyer  Outcome
}

var outcomes = map[domain.TransactionStatus]sides{
	domain.TransactionPending: {
		seller: Outcome{Label: "Waiting for Payment", Tone: domain.ToneYellow},
		buyer:  Outcome{Label: "Pay Now", Tone: domain.ToneBrand, Action: ActionPay},
	},
	domain.TransactionPaid: {
		seller: Outcome{Label: "Mark as Delivered", Tone: domain.ToneYellow, Action: ActionDeliver},
		buyer:  Outcome{Label: "Paid", Tone: domain.ToneBlue},
	},
	domain.TransactionDelivered: {
		seller: Outcome{Label: "Delivered", Tone: domain.ToneGreen},
		buyer:  Outcome{Label: "Mark as Completed", Tone: domain.ToneBlue, Action: ActionComplete},
	},
	domain.TransactionCompleted: {
		seller: Outcome{Label: "Completed", Tone: domain.ToneBlack},
		buyer:  Outcome{Label: "Completed", Tone: domain.ToneBlack},
	},
	domain.TransactionExpired: {
		seller: Outcome{Label: "Expired", Tone: domain.ToneRed},
		buyer:  Outcome{Label: "Expired", Tone: domain.ToneRed},
	},
}

// IsSeller reports whether the viewer sold the auction behind t.
func IsSeller(t *domain.Transaction) bool {
	return t != nil && t.Auction != nil && t.Auction.IsSeller
}

// Resolve returns the primary button for t.
func Resolve(t *domain.Transaction) Outcome {
	if t == nil {
		return Outcome{Label: UnknownStatus, Tone: domain.ToneGray}
	}
	s, ok := outcomes[t.Status]
	if !ok {
		return Outcome{Label: UnknownStatus, Tone: domain.ToneGray}
	}
	if IsSeller(t) {
		return s.seller
	}
	return s.buyer
}

// Note returns the line shown under the detail screen, or "".
func Note(t *domain.Transaction) string {
	if t == nil {
		return ""
	}
	seller := IsSeller(t)
	switch t.Status {
	case domain.TransactionPending:
		deadline := domain.FormatDate(t.PaymentDeadline())
		if seller {
			return fmt.Sprintf("Waiting for buyer payment before %s", deadline)
		}
		return fmt.Sprintf("Please pay before %s", deadline)
	case domain.TransactionPaid:
		if seller {
			return "Make sure to deliver the item"
		}
		return "Waiting for seller delivery"
	case domain.TransactionDelivered:
		if seller {
			return "Waiting for buyer confirmation"
		}
		return "Please confirm the item has been received"
	case domain.TransactionCompleted:
		return "Transaction completed"
	case domain.TransactionExpired:
		return "Transaction expired"
	default:
		return ""
	}
}

// Overdue reports whether a pending transaction is past its payment
// deadline. The server expires it; the screen only uses this as a hint.
func Overdue(t *domain.Transaction, now time.Time) bool {
	return t != nil && t.Status == domain.TransactionPending && now.After(t.PaymentDeadline())
}
