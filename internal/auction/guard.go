package auction

import (
	"sync/atomic"

	"github.com/shopspring/decimal"

	"github.com/jensholdgaard/hypebid-bot/internal/domain"
)

// BidKind is the way a bid was initiated.
type BidKind int

const (
	// BidCustom is an amount typed by the viewer.
	BidCustom BidKind = iota
	// BidQuick is the minimum-increment shortcut.
	BidQuick
	// BidBuyNow bids the buy-now price, ending the auction.
	BidBuyNow
)

func (k BidKind) String() string {
	switch k {
	case BidQuick:
		return "Quick Bid"
	case BidBuyNow:
		return "Buy Now"
	default:
		return "Place Bid"
	}
}

// QuickBidAmount is the highest bid plus the minimum increment.
func QuickBidAmount(a *domain.Auction) decimal.Decimal {
	return a.MinimumNextBid()
}

// BuyNowAmount is the auction's buy-now price.
func BuyNowAmount(a *domain.Auction) decimal.Decimal {
	return a.BuyNowPrice
}

// RawAmount returns the amount to validate for kind. Custom bids use the
// typed value; the shortcuts are computed from the snapshot.
func RawAmount(a *domain.Auction, kind BidKind, typed string) string {
	switch kind {
	case BidQuick:
		return QuickBidAmount(a).String()
	case BidBuyNow:
		return BuyNowAmount(a).String()
	default:
		return typed
	}
}

// ValidateBid checks a proposed amount against the auction snapshot and
// returns the amount to submit. The minimum is inclusive.
func ValidateBid(a *domain.Auction, raw string) (decimal.Decimal, error) {
	amount, err := domain.ParseAmount(raw)
	if err != nil {
		return decimal.Zero, err
	}
	if minimum := a.MinimumNextBid(); amount.LessThan(minimum) {
		return decimal.Zero, domain.Invalidf("Minimum bid is %s", domain.FormatRupiah(minimum))
	}
	return amount, nil
}

// InFlight allows at most one outstanding submission. The zero value is
// ready to use.
type InFlight struct {
	busy atomic.Bool
}

// TryAcquire claims the slot. It returns false when a submission is
// already pending; callers treat that as a no-op.
func (f *InFlight) TryAcquire() bool {
	return f.busy.CompareAndSwap(false, true)
}

// Release frees the slot.
func (f *InFlight) Release() {
	f.busy.Store(false)
}

// Busy reports whether a submission is pending.
func (f *InFlight) Busy() bool {
	return f.busy.Load()
}
