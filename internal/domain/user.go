package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role is the account role.
type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
)

// User is an account as returned by the API. AccessToken is only populated
// by the login and register endpoints.
type User struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone string  `json:"phone"`
	Role  Role    `json:"role"`
	Image *string `json:"image"`

	Balance decimal.Decimal `json:"balance"`
	// The API spells this field "disburbedBalance".
	DisbursedBalance decimal.Decimal `json:"disburbedBalance"`
	PendingBalance   decimal.Decimal `json:"pendingBalance"`

	Banned      bool      `json:"banned"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	AccessToken string    `json:"accessToken,omitempty"`
}

// Profile is the cached snapshot of the signed-in account.
type Profile struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Email            string          `json:"email"`
	Phone            string          `json:"phone"`
	Image            *string         `json:"image"`
	Balance          decimal.Decimal `json:"balance"`
	DisbursedBalance decimal.Decimal `json:"disbursedBalance"`
	PendingBalance   decimal.Decimal `json:"pendingBalance"`
}

// ProfileOf snapshots the profile fields of u.
func ProfileOf(u User) Profile {
	return Profile{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		Phone:            u.Phone,
		Image:            u.Image,
		Balance:          u.Balance,
		DisbursedBalance: u.DisbursedBalance,
		PendingBalance:   u.PendingBalance,
	}
}

// KycStatus is the state of an identity verification request.
type KycStatus string

const (
	// KycNone means no verification was ever submitted.
	KycNone     KycStatus = "none"
	KycPending  KycStatus = "Pending"
	KycAccepted KycStatus = "Accepted"
	KycRejected KycStatus = "Rejected"
)

// Kyc is an identity verification record.
type Kyc struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Image     string    `json:"image"`
	Status    KycStatus `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// StatusOf returns the status of k, or KycNone when k is nil.
func StatusOf(k *Kyc) KycStatus {
	if k == nil {
		return KycNone
	}
	return k.Status
}

// WithdrawStatus is the payout state of a withdrawal request.
type WithdrawStatus string

const (
	WithdrawPending WithdrawStatus = "Pending"
	WithdrawPaid    WithdrawStatus = "Paid"
)

// Withdraw is a seller payout request.
type Withdraw struct {
	ID        string          `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Bank      string          `json:"bank"`
	Account   string          `json:"account"`
	Status    WithdrawStatus  `json:"status"`
	UserID    string          `json:"userId"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Envelope is the response wrapper used by every API endpoint.
type Envelope[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
}
