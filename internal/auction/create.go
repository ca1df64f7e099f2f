package auction

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jensholdgaard/hypebid-bot/internal/domain"
)

// MinimumIncrement is the smallest bid increment a seller may configure.
var MinimumIncrement = decimal.NewFromInt(10000)

// Draft is the new-auction form as entered by the seller.
type Draft struct {
	Name         string                 `validate:"required"`
	Description  string                 `validate:"required"`
	Location     string                 `validate:"required"`
	OpeningPrice string                 `validate:"required"`
	BuyNowPrice  string                 `validate:"required"`
	MinimumBid   string                 `validate:"required"`
	Category     domain.AuctionCategory `validate:"required"`
	Start        time.Time
	End          time.Time
	Images       []domain.Upload
}

// Listing is a validated Draft ready for submission.
type Listing struct {
	Name         string
	Description  string
	Location     string
	OpeningPrice decimal.Decimal
	BuyNowPrice  decimal.Decimal
	MinimumBid   decimal.Decimal
	Category     domain.AuctionCategory
	Start        time.Time
	End          time.Time
	Images       []domain.Upload
}

// ValidateDraft checks d and stops at the first violated rule.
func ValidateDraft(d Draft, now time.Time) (Listing, error) {
	if err := domain.CheckForm(d); err != nil {
		return Listing{}, err
	}
	if d.Start.IsZero() || d.End.IsZero() {
		return Listing{}, domain.Invalid(domain.MsgFillAllFields)
	}
	if !d.Category.Valid() {
		return Listing{}, domain.Invalidf("Unknown category %q", d.Category)
	}
	if len(d.Images) == 0 {
		return Listing{}, domain.Invalid("Upload at least one image")
	}

	opening, err := domain.ParseAmount(d.OpeningPrice)
	if err != nil {
		return Listing{}, err
	}
	buyNow, err := domain.ParseAmount(d.BuyNowPrice)
	if err != nil {
		return Listing{}, err
	}
	increment, err := domain.ParseAmount(d.MinimumBid)
	if err != nil {
		return Listing{}, err
	}

	switch {
	case buyNow.LessThan(opening):
		return Listing{}, domain.Invalid("Buy now price must be greater than opening price")
	case increment.LessThan(MinimumIncrement):
		return Listing{}, domain.Invalidf("Minimum increment bid is %s", domain.FormatNumber(MinimumIncrement))
	case !d.End.After(d.Start):
		return Listing{}, domain.Invalid("End date must be greater than start date")
	case !d.Start.After(now):
		return Listing{}, domain.Invalid("Start date must be greater than current date")
	}

	return Listing{
		Name:         d.Name,
		Description:  d.Description,
		Location:     d.Location,
		OpeningPrice: opening,
		BuyNowPrice:  buyNow,
		MinimumBid:   increment,
		Category:     d.Category,
		Start:        d.Start,
		End:          d.End,
		Images:       d.Images,
	}, nil
}
