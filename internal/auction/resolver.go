// Package auction decides what an auction view shows and what the viewer may
// do next, and guards bid and listing input before it reaches the API.
package auction

import (
	"time"

	"github.com/jensholdgaard/hypebid-bot/internal/domain"
)

// Status classifies an auction from the viewer's point of view.
type Status int

const (
	// StatusUnknown is the residual state no rule matched. It has no label
	// and no action.
	StatusUnknown Status = iota
	StatusUpcoming
	StatusWaitingForSeller
	StatusAwaitingBuyerPayment
	StatusOwnedBySeller
	StatusFinishable
	StatusPaymentDue
	StatusTransactionOpen
	StatusFinished
	StatusBiddable
	StatusKYCRequired
)

var statusNames = map[Status]string{
	StatusUnknown:              "Unknown",
	StatusUpcoming:             "Upcoming",
	StatusWaitingForSeller:     "WaitingForSeller",
	StatusAwaitingBuyerPayment: "AwaitingBuyerPayment",
	StatusOwnedBySeller:        "OwnedBySeller",
	StatusFinishable:           "Finishable",
	StatusPaymentDue:           "PaymentDue",
	StatusTransactionOpen:      "TransactionOpen",
	StatusFinished:             "Finished",
	StatusBiddable:             "Biddable",
	StatusKYCRequired:          "KYCRequired",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "Unknown"
}

// Action is the single primary action a view offers.
type Action int

const (
	ActionNone Action = iota
	// ActionFinalize closes the auction server-side.
	ActionFinalize
	// ActionOpenPayment navigates to the payment detail of the transaction.
	ActionOpenPayment
	// ActionOpenTransaction navigates to the transaction detail.
	ActionOpenTransaction
	// ActionOpenBidForm opens bid submission.
	ActionOpenBidForm
	// ActionStartKYC navigates to identity verification.
	ActionStartKYC
)

func (a Action) String() string {
	switch a {
	case ActionFinalize:
		return "finalize"
	case ActionOpenPayment:
		return "open-payment"
	case ActionOpenTransaction:
		return "open-transaction"
	case ActionOpenBidForm:
		return "open-bid-form"
	case ActionStartKYC:
		return "start-kyc"
	default:
		return "none"
	}
}

// Emphasis is the visual weight of an outcome. Presentation only.
type Emphasis int

const (
	EmphasisNeutral Emphasis = iota
	EmphasisInformational
	EmphasisActionable
	EmphasisTerminal
)

// Viewer is the viewer's relationship to an auction.
type Viewer struct {
	IsSeller    bool
	IsBuyer     bool
	KYCVerified bool
}

// ViewerOf takes the role flags the server computed on a and combines them
// with the viewer's KYC state.
func ViewerOf(a *domain.Auction, kyc domain.KycStatus) Viewer {
	return Viewer{
		IsSeller:    a.IsSeller,
		IsBuyer:     a.IsBuyer,
		KYCVerified: kyc == domain.KycAccepted,
	}
}

// Outcome is the resolved status of an auction view.
type Outcome struct {
	Status   Status
	Label    string
	Action   Action
	Emphasis Emphasis
	// TransactionID is set for ActionOpenPayment and ActionOpenTransaction.
	TransactionID string
}

// Enabled reports whether the outcome offers an action.
func (o Outcome) Enabled() bool { return o.Action != ActionNone }

type facts struct {
	a   *domain.Auction
	v   Viewer
	now time.Time
}

func (f facts) txStatus(s domain.TransactionStatus) bool {
	return f.a.Transaction != nil && f.a.Transaction.Status == s
}

func (f facts) noTx() bool { return f.a.Transaction == nil }

type rule struct {
	when    func(f facts) bool
	outcome Outcome
}

// rules are evaluated top to bottom; the first match wins. The seller
// branches come before the buyer branches, so a viewer flagged as both is
// treated as the seller.
var rules = []rule{
	{
		when:    func(f facts) bool { return f.a.Start.After(f.now) },
		outcome: Outcome{Status: StatusUpcoming, Label: "Upcoming", Emphasis: EmphasisNeutral},
	},
	{
		when:    func(f facts) bool { return f.a.IsWaitingForSeller },
		outcome: Outcome{Status: StatusWaitingForSeller, Label: "Waiting for seller", Emphasis: EmphasisNeutral},
	},
	{
		when:    func(f facts) bool { return f.v.IsSeller && f.txStatus(domain.TransactionPending) },
		outcome: Outcome{Status: StatusAwaitingBuyerPayment, Label: "Waiting for buyer payment", Emphasis: EmphasisInformational},
	},
	{
		when:    func(f facts) bool { return f.v.IsSeller && !f.a.IsAbleToFinish && f.noTx() },
		outcome: Outcome{Status: StatusOwnedBySeller, Label: "You are the seller", Emphasis: EmphasisInformational},
	},
	{
		when:    func(f facts) bool { return f.v.IsSeller && f.a.IsAbleToFinish && f.noTx() },
		outcome: Outcome{Status: StatusFinishable, Label: "Finish the auction", Action: ActionFinalize, Emphasis: EmphasisActionable},
	},
	{
		when:    func(f facts) bool { return f.v.IsBuyer && f.txStatus(domain.TransactionPending) },
		outcome: Outcome{Status: StatusPaymentDue, Label: "Proceed to payment", Action: ActionOpenPayment, Emphasis: EmphasisActionable},
	},
	{
		when:    func(f facts) bool { return (f.v.IsBuyer || f.v.IsSeller) && !f.noTx() },
		outcome: Outcome{Status: StatusTransactionOpen, Label: "Check transaction", Action: ActionOpenTransaction, Emphasis: EmphasisActionable},
	},
	{
		// The server names the viewer the buyer but sent no transaction.
		when:    func(f facts) bool { return f.v.IsBuyer && f.noTx() },
		outcome: Outcome{Status: StatusUnknown, Emphasis: EmphasisNeutral},
	},
	{
		when:    func(f facts) bool { return !f.v.IsBuyer && !f.v.IsSeller && f.a.IsFinished(f.now) },
		outcome: Outcome{Status: StatusFinished, Label: "Finished", Emphasis: EmphasisTerminal},
	},
	{
		when:    func(f facts) bool { return !f.v.IsSeller && f.noTx() && f.a.IsAbleToBid && f.v.KYCVerified },
		outcome: Outcome{Status: StatusBiddable, Label: "Bid Now", Action: ActionOpenBidForm, Emphasis: EmphasisActionable},
	},
	{
		when:    func(f facts) bool { return !f.v.IsSeller && f.noTx() && f.a.IsAbleToBid && !f.v.KYCVerified },
		outcome: Outcome{Status: StatusKYCRequired, Label: "Verify KYC to Bid", Action: ActionStartKYC, Emphasis: EmphasisActionable},
	},
}

// Resolve classifies a for viewer v at instant now. It is a pure function
// of its inputs.
func Resolve(a *domain.Auction, v Viewer, now time.Time) Outcome {
	if a == nil {
		return Outcome{Status: StatusUnknown}
	}
	f := facts{a: a, v: v, now: now}
	for _, r := range rules {
		if !r.when(f) {
			continue
		}
		out := r.outcome
		if out.Action == ActionOpenPayment || out.Action == ActionOpenTransaction {
			out.TransactionID = a.Transaction.ID
		}
		return out
	}
	return Outcome{Status: StatusUnknown, Emphasis: EmphasisNeutral}
}
