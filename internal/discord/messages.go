package discord

// Friendly message constants for Discord responses
const (
	// Economy
	MsgInsufficientFunds = "⚠️ **Not Enough Nuggets!**\nYou don't have enough nuggets for that."

	// Wagering sessions
	MsgSessionActive   = "🎲 **Wager In Progress**\nFinish or cancel your current wager first."
	MsgSessionExpired  = "⏳ **Wager Expired**\nThat wager timed out. Start a new one."
	MsgStaleAction     = "🚫 **Too Late**\nThat action is no longer available."
	MsgNotYourSession  = "👤 **Not Your Wager**\nOnly the player who started this wager can act on it."
	MsgSessionNotFound = "❓ **Wager Not Found**\nIt may have been cleaned up already."

	MsgGenericError = "❌ Something went wrong."
)
