package domain

import "time"

// Tone is the colour family of a status badge. Renderers map it to their
// own palette.
type Tone int

const (
	ToneGray Tone = iota
	ToneYellow
	ToneSky
	ToneBlue
	TonePurple
	ToneGreen
	ToneRed
	ToneBlack
	ToneBrand
)

// Badge is a short status label with its tone.
type Badge struct {
	Label string
	Tone  Tone
}

// FormatDate renders t as "02 January, 2006 15:04".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02 January, 2006 15:04")
}
