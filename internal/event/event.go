package event

import (
	"encoding/json"
	"time"
)

// Type identifies an event kind.
type Type string

const (
	SessionOpened Type = "session.opened"
	SessionClosed Type = "session.closed"

	BidPlaced        Type = "auction.bid_placed"
	AuctionFinalized Type = "auction.finalized"
	AuctionCreated   Type = "auction.created"

	PaymentStarted        Type = "transaction.payment_started"
	TransactionDelivered  Type = "transaction.delivered"
	TransactionCompleted  Type = "transaction.completed"
	WithdrawalRequested   Type = "withdraw.requested"
	KYCSubmitted          Type = "kyc.submitted"
	ProfileUpdated        Type = "account.profile_updated"
	PasswordChanged       Type = "account.password_changed"
	ProfilePictureChanged Type = "account.picture_changed"
	ProfilePictureRemoved Type = "account.picture_removed"
)

// Event is one journal entry. AggregateID is the Discord user the action
// was performed for.
type Event struct {
	ID          string          `json:"id" db:"id"`
	AggregateID string          `json:"aggregate_id" db:"aggregate_id"`
	Type        Type            `json:"type" db:"type"`
	Data        json.RawMessage `json:"data" db:"data"`
	Version     int             `json:"version" db:"version"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// SessionData is the payload for session events.
type SessionData struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Method string `json:"method,omitempty"` // "login" or "register"
}

// BidPlacedData is the payload for BidPlaced events.
type BidPlacedData struct {
	AuctionID     string `json:"auction_id"`
	Amount        string `json:"amount"`
	Kind          string `json:"kind"`
	TransactionID string `json:"transaction_id,omitempty"`
}

// AuctionData is the payload for AuctionFinalized and AuctionCreated events.
type AuctionData struct {
	AuctionID string `json:"auction_id"`
	Name      string `json:"name,omitempty"`
}

// TransactionData is the payload for transaction events.
type TransactionData struct {
	TransactionID string `json:"transaction_id"`
	Location      string `json:"location,omitempty"`
}

// WithdrawalData is the payload for WithdrawalRequested events.
type WithdrawalData struct {
	WithdrawID string `json:"withdraw_id"`
	Amount     string `json:"amount"`
	Bank       string `json:"bank"`
}

// AccountData is the payload for account and KYC events.
type AccountData struct {
	UserID string `json:"user_id"`
}
