package discord

import (
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

// BalanceCommand returns the balance command definition and handler
func BalanceCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "balance",
		Description: "Check a nugget balance",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "user",
				Description: "User to check (default: you)",
				Required:    false,
			},
		},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
		if !deferResponse(s, i) {
			return
		}

		user := getInteractionUser(i)
		target := user
		if options := getOptions(i); len(options) > 0 {
			target = options[0].UserValue(s)
		}

		amount, err := client.GetBalance(target.ID)
		if err != nil {
			slog.Error("Failed to get balance", "error", err)
			respondError(s, i, "Error connecting to game server.")
			return
		}

		description := fmt.Sprintf("<@%s> has **%d** nuggets.", target.ID, amount)
		embed := createEmbed("🪙 Nugget Balance", description, 0xf1c40f, "")
		sendEmbed(s, i, embed)
	}

	return cmd, handler
}

// PayCommand returns the pay command definition and handler
func PayCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	minAmount := float64(1)
	cmd := &discordgo.ApplicationCommand{
		Name:        "pay",
		Description: "Send nuggets to another user",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "user",
				Description: "Who to pay",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "amount",
				Description: "Number of nuggets to send",
				Required:    true,
				MinValue:    &minAmount,
			},
		},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
		if !deferResponse(s, i) {
			return
		}

		user := getInteractionUser(i)
		options := getOptions(i)
		target := options[0].UserValue(s)
		amount := int(options[1].IntValue())

		if err := client.Transfer(user.ID, target.ID, amount); err != nil {
			slog.Error("Failed to transfer", "error", err)
			respondFriendlyError(s, i, err.Error())
			return
		}

		description := fmt.Sprintf("<@%s> paid **%d** nuggets to <@%s>.", user.ID, amount, target.ID)
		embed := createEmbed("💸 Payment Sent", description, 0x2ecc71, "")
		sendEmbed(s, i, embed)
	}

	return cmd, handler
}

// GrantCommand returns the admin grant command definition and handler.
// A negative amount removes nuggets.
func GrantCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	adminPerms := int64(discordgo.PermissionAdministrator)
	cmd := &discordgo.ApplicationCommand{
		Name:                     "grant",
		Description:              "Grant or remove nuggets (admin only)",
		DefaultMemberPermissions: &adminPerms,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "user",
				Description: "Account to adjust",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "amount",
				Description: "Nuggets to add (negative to remove)",
				Required:    true,
			},
		},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
		if !deferResponse(s, i) {
			return
		}

		options := getOptions(i)
		target := options[0].UserValue(s)
		amount := int(options[1].IntValue())

		newBalance, err := client.AdminCredit(target.ID, amount)
		if err != nil {
			slog.Error("Failed to credit", "error", err)
			respondFriendlyError(s, i, err.Error())
			return
		}

		description := fmt.Sprintf("Adjusted <@%s> by **%+d** nuggets.\nNew balance: **%d**", target.ID, amount, newBalance)
		embed := createEmbed("🛠️ Balance Adjusted", description, 0x95a5a6, FooterNuggetBotAdmin)
		sendEmbed(s, i, embed)
	}

	return cmd, handler
}
