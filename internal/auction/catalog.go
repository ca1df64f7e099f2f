package auction

import (
	"sort"

	"github.com/jensholdgaard/hypebid-bot/internal/domain"
)

// SegmentAll is the name of the segment holding every auction.
const SegmentAll = "All"

// Segment is a named group of auctions in the home catalog.
type Segment struct {
	Name     string
	Auctions []domain.Auction
}

// Segments groups auctions by category in first-seen order, preceded by the
// "All" segment. Every segment is sorted by start time, newest first.
func Segments(auctions []domain.Auction) []Segment {
	all := append([]domain.Auction(nil), auctions...)
	sortByStartDesc(all)

	segments := []Segment{{Name: SegmentAll, Auctions: all}}
	index := make(map[domain.AuctionCategory]int)
	for _, a := range auctions {
		i, ok := index[a.Category]
		if !ok {
			i = len(segments)
			index[a.Category] = i
			segments = append(segments, Segment{Name: string(a.Category)})
		}
		segments[i].Auctions = append(segments[i].Auctions, a)
	}
	for i := 1; i < len(segments); i++ {
		sortByStartDesc(segments[i].Auctions)
	}
	return segments
}

// Find returns the segment named name, or nil.
func Find(segments []Segment, name string) *Segment {
	for i := range segments {
		if segments[i].Name == name {
			return &segments[i]
		}
	}
	return nil
}

func sortByStartDesc(auctions []domain.Auction) {
	sort.SliceStable(auctions, func(i, j int) bool {
		return auctions[i].Start.After(auctions[j].Start)
	})
}
