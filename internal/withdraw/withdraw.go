// Package withdraw validates seller payout requests.
package withdraw

import (
	"github.com/shopspring/decimal"

	"github.com/jensholdgaard/hypebid-bot/internal/domain"
)

// MinimumAmount is the smallest payout the API accepts.
var MinimumAmount = decimal.NewFromInt(50000)

// Form is the withdrawal request as entered by the seller.
type Form struct {
	Amount  string `validate:"required"`
	Bank    string `validate:"required"`
	Account string `validate:"required"`
}

// Request is the validated body of POST /withdraws.
type Request struct {
	Amount  decimal.Decimal `json:"amount"`
	Bank    string          `json:"bank"`
	Account string          `json:"account"`
}

// Validate checks f against the available balance and stops at the first
// violated rule.
func Validate(f Form, balance decimal.Decimal) (Request, error) {
	if err := domain.CheckForm(f); err != nil {
		return Request{}, err
	}
	amount, err := domain.ParseAmount(f.Amount)
	if err != nil {
		return Request{}, err
	}
	if amount.GreaterThan(balance) {
		return Request{}, domain.Invalid("Insufficient balance")
	}
	if amount.LessThan(MinimumAmount) {
		return Request{}, domain.Invalidf("Minimum withdrawal is %s", domain.FormatNumber(MinimumAmount))
	}
	return Request{Amount: amount, Bank: f.Bank, Account: f.Account}, nil
}

// StatusBadge is the badge of a withdrawal in the payout history.
func StatusBadge(w domain.Withdraw) domain.Badge {
	if w.Status == domain.WithdrawPending {
		return domain.Badge{Label: string(w.Status), Tone: domain.ToneYellow}
	}
	return domain.Badge{Label: string(w.Status), Tone: domain.ToneGreen}
}
