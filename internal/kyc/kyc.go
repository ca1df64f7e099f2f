// Package kyc describes the identity verification state of an account.
package kyc

import (
	"github.com/jensholdgaard/hypebid-bot/internal/domain"
)

// MsgSelectImage is reported when a submission has no document photo.
const MsgSelectImage = "Please select an image"

// Badge is the verification banner on the profile screen.
type Badge struct {
	Label       string
	Description string
	Tone        domain.Tone
	// CanVerify reports whether the banner offers to (re)submit a document.
	CanVerify bool
}

// BadgeOf returns the banner for status.
func BadgeOf(status domain.KycStatus) Badge {
	switch status {
	case domain.KycPending:
		return Badge{
			Label:       "KYC Pending",
			Description: "Your verification is being reviewed",
			Tone:        domain.ToneYellow,
		}
	case domain.KycAccepted:
		return Badge{
			Label:       "KYC Verified",
			Description: "Your identity has been verified",
			Tone:        domain.ToneGreen,
		}
	case domain.KycRejected:
		return Badge{
			Label:       "KYC Rejected",
			Description: "Your verification was rejected. Please try again.",
			Tone:        domain.ToneRed,
			CanVerify:   true,
		}
	default:
		return Badge{
			Label:       "KYC Not Submitted",
			Description: "Verify your identity to unlock all features",
			Tone:        domain.ToneGray,
			CanVerify:   true,
		}
	}
}

// Verified reports whether status lets the account bid.
func Verified(status domain.KycStatus) bool {
	return status == domain.KycAccepted
}

// CheckSubmission validates a document upload.
func CheckSubmission(img *domain.Upload) error {
	if img == nil || img.Body == nil {
		return domain.Invalid(MsgSelectImage)
	}
	return nil
}
