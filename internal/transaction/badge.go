package transaction

import "github.com/jensholdgaard/hypebid-bot/internal/domain"

// SellerBadge is the badge of an auction in the seller's listing. The
// transaction status wins over the moderation status.
func SellerBadge(a domain.Auction) domain.Badge {
	if a.Transaction != nil {
		switch a.Transaction.Status {
		case domain.TransactionPaid:
			return domain.Badge{Label: "Paid", Tone: domain.ToneBlue}
		case domain.TransactionPending:
			return domain.Badge{Label: "Waiting", Tone: domain.ToneSky}
		case domain.TransactionDelivered:
			return domain.Badge{Label: "Delivered", Tone: domain.TonePurple}
		case domain.TransactionCompleted:
			return domain.Badge{Label: "Completed", Tone: domain.ToneGreen}
		case domain.TransactionExpired:
			return domain.Badge{Label: "Expired", Tone: domain.ToneGray}
		}
	}
	switch a.Status {
	case domain.AuctionAccepted:
		return domain.Badge{Label: "Accepted", Tone: domain.ToneBlack}
	case domain.AuctionPending:
		return domain.Badge{Label: "Pending", Tone: domain.ToneYellow}
	case domain.AuctionRejected:
		return domain.Badge{Label: "Rejected", Tone: domain.ToneRed}
	default:
		return domain.Badge{Label: "Check", Tone: domain.ToneGray}
	}
}

// StatusTone is the tone of a transaction status in the buyer's list.
func StatusTone(s domain.TransactionStatus) domain.Tone {
	switch s {
	case domain.TransactionPending:
		return domain.ToneGray
	case domain.TransactionExpired:
		return domain.ToneRed
	case domain.TransactionPaid:
		return domain.ToneBlue
	case domain.TransactionDelivered:
		return domain.ToneGreen
	case domain.TransactionCompleted:
		return domain.ToneBlack
	default:
		return domain.ToneBrand
	}
}

// SegmentAll holds every transaction.
const SegmentAll = "All"

// SegmentOrder is the tab order of the transaction list.
var SegmentOrder = []string{
	SegmentAll,
	string(domain.TransactionPending),
	string(domain.TransactionExpired),
	string(domain.TransactionPaid),
	string(domain.TransactionDelivered),
	string(domain.TransactionCompleted),
}

// Segment is one tab of the transaction list.
type Segment struct {
	Name  string
	Items []domain.Transaction
}

// Segments groups txs by status. Every segment in SegmentOrder is present,
// possibly empty; transactions with unknown statuses only appear in "All".
func Segments(txs []domain.Transaction) []Segment {
	segments := make([]Segment, len(SegmentOrder))
	index := make(map[string]int, len(SegmentOrder))
	for i, name := range SegmentOrder {
		segments[i].Name = name
		index[name] = i
	}
	segments[0].Items = append([]domain.Transaction(nil), txs...)
	for _, t := range txs {
		if i, ok := index[string(t.Status)]; ok && i != 0 {
			segments[i].Items = append(segments[i].Items, t)
		}
	}
	return segments
}
