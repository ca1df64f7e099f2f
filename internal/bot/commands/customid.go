package commands

import "strings"

// Custom IDs of buttons and modals. IDs carrying an entity are encoded as
// "<action>:<id>".
const (
	actionAuctionRefresh = "auction-refresh"
	actionBidQuick       = "bid-quick"
	actionBidBuyNow      = "bid-buy-now"
	actionBidCustom      = "bid-custom"
	actionFinish         = "auction-finish"
	actionKYCInfo        = "kyc-info"

	actionTxOpen     = "tx-open"
	actionTxPay      = "tx-pay"
	actionTxDeliver  = "tx-deliver"
	actionTxComplete = "tx-complete"

	actionProfileEdit     = "profile-edit"
	actionProfilePassword = "profile-password"
	actionProfileUnpic    = "profile-remove-picture"
	actionSignOut         = "sign-out"
	actionWithdrawNew     = "withdraw-new"

	modalLogin    = "modal-login"
	modalRegister = "modal-register"
	modalBid      = "modal-bid"
	modalPay      = "modal-pay"
	modalProfile  = "modal-profile"
	modalPassword = "modal-password"
	modalWithdraw = "modal-withdraw"
)

// customID joins an action and an optional entity id.
func customID(action, id string) string {
	if id == "" {
		return action
	}
	return action + ":" + id
}

// parseCustomID splits a custom ID into its action and entity id.
func parseCustomID(s string) (action, id string) {
	action, id, _ = strings.Cut(s, ":")
	return action, id
}
