package auction

import (
	"time"

	"github.com/jensholdgaard/hypebid-bot/internal/domain"
)

// Phase is the lifecycle badge shown in an auction header.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseUpcoming
	PhaseOngoing
	PhaseFinished
)

// Label returns the badge text; PhaseNone has none.
func (p Phase) Label() string {
	switch p {
	case PhaseUpcoming:
		return "Upcoming"
	case PhaseOngoing:
		return "Ongoing"
	case PhaseFinished:
		return "Finished"
	default:
		return ""
	}
}

// Lifecycle returns the phase of a at now.
func Lifecycle(a *domain.Auction, now time.Time) Phase {
	switch {
	case a.Start.After(now):
		return PhaseUpcoming
	case a.IsFinished(now):
		return PhaseFinished
	case a.Start.Before(now) && a.End.After(now):
		return PhaseOngoing
	default:
		return PhaseNone
	}
}
