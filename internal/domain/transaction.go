package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus is the settlement state of a won auction.
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "Pending"
	TransactionPaid      TransactionStatus = "Paid"
	TransactionDelivered TransactionStatus = "Delivered"
	TransactionCompleted TransactionStatus = "Completed"
	TransactionExpired   TransactionStatus = "Expired"
)

// PaymentWindow is how long a buyer has to pay once a transaction opens.
const PaymentWindow = 24 * time.Hour

// Transaction links a won auction with its buyer and payment.
type Transaction struct {
	ID        string            `json:"id"`
	Amount    decimal.Decimal   `json:"amount"`
	Status    TransactionStatus `json:"status"`
	Location  *string           `json:"location"`
	SnapToken *string           `json:"snapToken"`
	DirectURL *string           `json:"directUrl"`
	AuctionID string            `json:"auctionId"`
	UserID    string            `json:"userId"`
	Auction   *Auction          `json:"auction,omitempty"`
	Buyer     *User             `json:"buyer,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// PaymentDeadline is the instant after which an unpaid transaction expires.
func (t *Transaction) PaymentDeadline() time.Time {
	return t.CreatedAt.Add(PaymentWindow)
}

// HasPaymentHandle reports whether the gateway issued a payment token.
func (t *Transaction) HasPaymentHandle() bool {
	return t.SnapToken != nil && *t.SnapToken != ""
}

// ShippingAddress returns the stored delivery location, or "".
func (t *Transaction) ShippingAddress() string {
	if t.Location == nil {
		return ""
	}
	return *t.Location
}

// PaymentLink is what the buyer needs to complete payment at the gateway.
type PaymentLink struct {
	RedirectURL string
	SnapToken   string
}
