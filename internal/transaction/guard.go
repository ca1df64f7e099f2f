package transaction

import (
	"errors"
	"strings"

	"github.com/jensholdgaard/hypebid-bot/internal/domain"
)

// ErrNotAllowed is returned when a transition is attempted from the wrong
// status. Screens treat it as a silent no-op.
var ErrNotAllowed = errors.New("transition not allowed in current status")

// MsgShippingAddress is reported when the buyer pays without an address.
const MsgShippingAddress = "Please fill your shipping address"

// PaymentPlan is what Pay has to do before handing over the payment link.
type PaymentPlan struct {
	// Location is the address to store; empty when the transaction already
	// has one.
	Location string
	Link     domain.PaymentLink
}

// PlanPayment checks that t can be paid with the given shipping address.
func PlanPayment(t *domain.Transaction, address string) (PaymentPlan, error) {
	if t == nil || t.Status != domain.TransactionPending {
		return PaymentPlan{}, ErrNotAllowed
	}
	address = strings.TrimSpace(address)
	if address == "" {
		address = t.ShippingAddress()
	}
	if address == "" {
		return PaymentPlan{}, domain.Invalid(MsgShippingAddress)
	}

	plan := PaymentPlan{}
	if t.ShippingAddress() == "" {
		plan.Location = address
	}
	if t.DirectURL != nil {
		plan.Link.RedirectURL = *t.DirectURL
	}
	if t.SnapToken != nil {
		plan.Link.SnapToken = *t.SnapToken
	}
	return plan, nil
}

// CanDeliver reports whether the seller may mark t as delivered.
func CanDeliver(t *domain.Transaction) error {
	if t == nil || t.Status != domain.TransactionPaid {
		return ErrNotAllowed
	}
	return nil
}

// CanComplete reports whether the buyer may mark t as completed.
func CanComplete(t *domain.Transaction) error {
	if t == nil || t.Status != domain.TransactionDelivered {
		return ErrNotAllowed
	}
	return nil
}
