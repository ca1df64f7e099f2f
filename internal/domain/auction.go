// Package domain holds the HypeBid API entities consumed by the bot and the
// error taxonomy shared by validators, the API gateway and the views.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuctionCategory is the item category an auction is listed under.
type AuctionCategory string

const (
	CategoryTops        AuctionCategory = "Tops"
	CategoryBottoms     AuctionCategory = "Bottoms"
	CategoryFootwear    AuctionCategory = "Footwear"
	CategoryAccessories AuctionCategory = "Accessories"
	CategoryOuterwear   AuctionCategory = "Outerwear"
)

// Categories lists every category in display order.
var Categories = []AuctionCategory{
	CategoryTops,
	CategoryBottoms,
	CategoryFootwear,
	CategoryAccessories,
	CategoryOuterwear,
}

// Valid reports whether c is a known category.
func (c AuctionCategory) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// AuctionStatus is the moderation state of an auction.
type AuctionStatus string

const (
	AuctionPending  AuctionStatus = "Pending"
	AuctionAccepted AuctionStatus = "Accepted"
	AuctionRejected AuctionStatus = "Rejected"
)

// Auction is an auction as returned by the API. The Is* flags are computed
// server-side relative to the authenticated viewer.
type Auction struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Location     string          `json:"location"`
	Images       []string        `json:"images"`
	OpeningPrice decimal.Decimal `json:"openingPrice"`
	BuyNowPrice  decimal.Decimal `json:"buyNowPrice"`
	MinimumBid   decimal.Decimal `json:"minimumBid"`
	Start        time.Time       `json:"start"`
	End          time.Time       `json:"end"`
	Category     AuctionCategory `json:"category"`
	Status       AuctionStatus   `json:"status"`
	UserID       string          `json:"userId"`
	Seller       *User           `json:"seller,omitempty"`
	Transaction  *Transaction    `json:"transaction"`
	// Bids are ordered newest first.
	Bids      []Bid     `json:"bids"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	IsAbleToBid        bool `json:"isAbleToBid"`
	IsAbleToFinish     bool `json:"isAbleToFinish"`
	IsWaitingForSeller bool `json:"isWaitingForSeller"`
	IsSeller           bool `json:"isSeller"`
	IsBuyer            bool `json:"isBuyer"`
}

// HighestBid returns the newest bid amount, or the opening price when the
// auction has no bids.
func (a *Auction) HighestBid() decimal.Decimal {
	if len(a.Bids) == 0 {
		return a.OpeningPrice
	}
	return a.Bids[0].Amount
}

// MinimumNextBid is the smallest amount the next bid may have.
func (a *Auction) MinimumNextBid() decimal.Decimal {
	return a.HighestBid().Add(a.MinimumBid)
}

// IsFinished reports whether the auction is over: the window closed, the
// buy-now price was reached, or a transaction exists.
func (a *Auction) IsFinished(now time.Time) bool {
	return a.End.Before(now) ||
		a.HighestBid().Equal(a.BuyNowPrice) ||
		a.Transaction != nil
}

// Bid is a single bid on an auction.
type Bid struct {
	ID        string          `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	AuctionID string          `json:"auctionId"`
	UserID    string          `json:"userId"`
	Auction   *Auction        `json:"auction,omitempty"`
	User      *User           `json:"user,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
