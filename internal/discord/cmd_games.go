package discord

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/NuggetBot_Go/internal/domain"
)

// ComponentPrefixWager routes wager buttons: "wager:<sessionID>:<action>"
const ComponentPrefixWager = "wager"

// componentActionClose dismisses a finished wager message. It is handled
// entirely in the front-end; the core API has no matching action.
const componentActionClose = "close"

var diceFaces = []string{"⚀", "⚁", "⚂", "⚃", "⚄", "⚅"}

// gameTitles maps a game to its embed title
var gameTitles = map[domain.GameKind]string{
	domain.GameChinchiro: "🎲 Chinchiro",
	domain.GameSlots:     "🎰 Slots",
	domain.GameBlackjack: "🃏 Blackjack",
}

// ChinchiroCommand returns the chinchiro wager command definition and handler
func ChinchiroCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	return wagerCommand("chinchiro", "Wager nuggets on a game of chinchiro dice")
}

// SlotsCommand returns the slots wager command definition and handler
func SlotsCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	return wagerCommand("slots", "Wager nuggets on a spin of the slot machine")
}

// BlackjackCommand returns the blackjack wager command definition and handler
func BlackjackCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	return wagerCommand("blackjack", "Wager nuggets on a hand of blackjack")
}

// wagerCommand builds a propose-style game command. All three games share the
// same shape: a wager amount in, a confirmable session out.
func wagerCommand(game, description string) (*discordgo.ApplicationCommand, CommandHandler) {
	minWager := float64(1)
	cmd := &discordgo.ApplicationCommand{
		Name:        game,
		Description: description,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "wager",
				Description: "Nuggets to put on the line",
				Required:    true,
				MinValue:    &minWager,
			},
		},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
		if !deferResponse(s, i) {
			return
		}

		user := getInteractionUser(i)
		options := getOptions(i)
		wager := int(options[0].IntValue())

		snap, err := client.ProposeSession(user.ID, game, wager)
		if err != nil {
			slog.Error("Failed to propose session", "game", game, "error", err)
			respondFriendlyError(s, i, err.Error())
			return
		}

		embed, components := renderSession(snap)
		sendEmbedWithComponents(s, i, embed, components)
	}

	return cmd, handler
}

// WagerComponentHandler advances a session from a button press.
// args is [sessionID, action] parsed out of the CustomID.
func WagerComponentHandler(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient, args []string) {
	if len(args) != 2 {
		slog.Warn("Malformed wager component", "custom_id", i.MessageComponentData().CustomID)
		return
	}
	sessionID, action := args[0], args[1]

	if !deferComponentUpdate(s, i) {
		return
	}

	if action == componentActionClose {
		empty := []discordgo.MessageComponent{}
		if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
			Components: &empty,
		}); err != nil {
			slog.Error("Failed to clear components", "error", err)
		}
		return
	}

	user := getInteractionUser(i)
	snap, err := client.ActSession(sessionID, user.ID, action)
	if err != nil {
		slog.Error("Failed to act on session", "session_id", sessionID, "action", action, "error", err)
		respondComponentError(s, i, formatFriendlyError(err.Error()))
		return
	}

	embed, components := renderSession(snap)
	sendEmbedWithComponents(s, i, embed, components)
}

// respondComponentError sends an ephemeral follow-up so the original wager
// message stays intact for the player who owns it.
func respondComponentError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	if _, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content: message,
		Flags:   discordgo.MessageFlagsEphemeral,
	}); err != nil {
		slog.Error("Failed to send follow-up", "error", err)
	}
}

// renderSession turns a session snapshot into an embed and the button row
// valid for its current state.
func renderSession(snap *domain.SessionSnapshot) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	title := gameTitles[snap.Game]

	switch snap.State {
	case domain.SessionStateAwaitingConfirmation:
		description := fmt.Sprintf("<@%s> wagers **%d** nuggets.\nConfirm to put them on the line.", snap.OwnerID, snap.Wager)
		return createEmbed(title, description, 0x3498db, ""), wagerButtons(snap.ID.String(), domain.ActionConfirm, domain.ActionCancel)

	case domain.SessionStateInPlay:
		description := renderBlackjackTable(snap) + "\n\nHit or stand?"
		actions := []domain.SessionAction{domain.ActionHit, domain.ActionStand}
		if snap.CanDouble {
			actions = append(actions, domain.ActionDouble)
		}
		return createEmbed(title, description, 0x3498db, ""), wagerButtons(snap.ID.String(), actions...)

	case domain.SessionStateResolved:
		description := renderResult(snap)
		components := []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    buttonLabels[domain.ActionReplay],
					Style:    buttonStyles[domain.ActionReplay],
					CustomID: fmt.Sprintf("%s:%s:%s", ComponentPrefixWager, snap.ID, domain.ActionReplay),
				},
				discordgo.Button{
					Label:    "Close",
					Style:    discordgo.SecondaryButton,
					CustomID: fmt.Sprintf("%s:%s:%s", ComponentPrefixWager, snap.ID, componentActionClose),
				},
			}},
		}
		return createEmbed(title, description, outcomeColor(snap.Outcome), ""), components

	case domain.SessionStateCancelled:
		return createEmbed(title, "Wager cancelled. No nuggets changed hands.", 0x95a5a6, ""), nil

	case domain.SessionStateTimedOut:
		description := "Wager timed out."
		if snap.Game == domain.GameBlackjack && len(snap.PlayerHand) > 0 {
			description = "Wager timed out mid-hand. The stake is forfeit."
		}
		return createEmbed(title, description, 0x95a5a6, ""), nil

	default:
		return createEmbed(title, fmt.Sprintf("Wager of **%d** nuggets in progress.", snap.Wager), 0x3498db, ""), nil
	}
}

// buttonLabels maps actions to their button text
var buttonLabels = map[domain.SessionAction]string{
	domain.ActionConfirm: "Confirm",
	domain.ActionCancel:  "Cancel",
	domain.ActionHit:     "Hit",
	domain.ActionStand:   "Stand",
	domain.ActionDouble:  "Double Down",
	domain.ActionReplay:  "Play Again",
}

// buttonStyles maps actions to their visual style
var buttonStyles = map[domain.SessionAction]discordgo.ButtonStyle{
	domain.ActionConfirm: discordgo.SuccessButton,
	domain.ActionCancel:  discordgo.DangerButton,
	domain.ActionHit:     discordgo.PrimaryButton,
	domain.ActionStand:   discordgo.SecondaryButton,
	domain.ActionDouble:  discordgo.DangerButton,
	domain.ActionReplay:  discordgo.PrimaryButton,
}

// wagerButtons builds one action row of session buttons
func wagerButtons(sessionID string, actions ...domain.SessionAction) []discordgo.MessageComponent {
	buttons := make([]discordgo.MessageComponent, 0, len(actions))
	for _, action := range actions {
		buttons = append(buttons, discordgo.Button{
			Label:    buttonLabels[action],
			Style:    buttonStyles[action],
			CustomID: fmt.Sprintf("%s:%s:%s", ComponentPrefixWager, sessionID, action),
		})
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: buttons},
	}
}

// renderResult formats a resolved session for display
func renderResult(snap *domain.SessionSnapshot) string {
	var b strings.Builder

	switch snap.Game {
	case domain.GameChinchiro:
		b.WriteString(fmt.Sprintf("You rolled %s — **%s**\n", renderDice(snap.PlayerRoll), snap.PlayerLabel))
		b.WriteString(fmt.Sprintf("Dealer rolled %s — **%s**\n", renderDice(snap.DealerRoll), snap.DealerLabel))
	case domain.GameSlots:
		b.WriteString(fmt.Sprintf("[ %s ]\n", strings.Join(snap.Reels, " | ")))
	case domain.GameBlackjack:
		b.WriteString(renderBlackjackTable(snap))
		b.WriteString("\n")
	}

	switch snap.Outcome {
	case domain.OutcomeWin:
		b.WriteString(fmt.Sprintf("\n🎉 **You win %d nuggets!**", snap.Payout))
	case domain.OutcomeDraw:
		b.WriteString(fmt.Sprintf("\n🤝 **Push.** Your %d nuggets are returned.", snap.Payout))
	default:
		b.WriteString("\n💀 **You lose.**")
	}

	b.WriteString(fmt.Sprintf("\nBalance: **%d** nuggets", snap.Balance))
	return b.String()
}

// renderBlackjackTable shows both hands, hiding the dealer's hole card while
// the hand is still live.
func renderBlackjackTable(snap *domain.SessionSnapshot) string {
	player := fmt.Sprintf("Your hand: %s (**%d**)", strings.Join(snap.PlayerHand, " "), snap.PlayerTotal)

	dealer := fmt.Sprintf("Dealer: %s (**%d**)", strings.Join(snap.DealerHand, " "), snap.DealerTotal)
	if snap.DealerHidden {
		dealer = fmt.Sprintf("Dealer: %s 🂠", strings.Join(snap.DealerHand, " "))
	}

	table := player + "\n" + dealer
	if snap.Doubled {
		table += fmt.Sprintf("\nDoubled down — %d nuggets riding.", snap.Wager*2)
	}
	return table
}

// renderDice shows a roll as die faces
func renderDice(roll []int) string {
	faces := make([]string, 0, len(roll))
	for _, die := range roll {
		if die >= 1 && die <= 6 {
			faces = append(faces, diceFaces[die-1])
		}
	}
	return strings.Join(faces, " ")
}

func outcomeColor(outcome domain.Outcome) int {
	switch outcome {
	case domain.OutcomeWin:
		return 0x2ecc71
	case domain.OutcomeDraw:
		return 0x95a5a6
	default:
		return 0xe74c3c
	}
}
