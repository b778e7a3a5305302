package discord

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func commandInteraction(name string, options ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type: discordgo.InteractionApplicationCommand,
			Data: discordgo.ApplicationCommandInteractionData{
				Name:    name,
				Options: options,
			},
			Member: &discordgo.Member{
				User: &discordgo.User{ID: "test-user", Username: "Tester"},
			},
		},
	}
}

// captureEdits wires the Discord mock to record webhook edits and resolve
// user lookups to a fixed target user.
func captureEdits(ctx *TestContext, sentEmbed **discordgo.MessageEmbed) {
	ctx.DiscordMocks.RoundTripFunc = func(req *http.Request) (*http.Response, error) {
		if req.Method == http.MethodGet && strings.Contains(req.URL.Path, "/users/") {
			return JSONResponse(`{"id":"target-user","username":"Target"}`), nil
		}
		if req.Method == http.MethodPatch {
			var body discordgo.WebhookEdit
			_ = json.NewDecoder(req.Body).Decode(&body)
			if body.Embeds != nil && len(*body.Embeds) > 0 {
				*sentEmbed = (*body.Embeds)[0]
			}
		}
		return JSONResponse("{}"), nil
	}
}

func TestBalanceCommand_Self(t *testing.T) {
	ctx := SetupTestContext(t)
	cmd, handler := BalanceCommand()

	ctx.Mux.HandleFunc("/api/v1/balance", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "test-user", r.URL.Query().Get("account_id"))
		WriteJSON(w, map[string]interface{}{"account_id": "test-user", "amount": 350})
	})

	var sentEmbed *discordgo.MessageEmbed
	captureEdits(ctx, &sentEmbed)

	handler(ctx.Session, commandInteraction(cmd.Name), ctx.APIClient)

	assert.NotNil(t, sentEmbed, "Should send an embed response")
	if sentEmbed != nil {
		assert.Contains(t, sentEmbed.Title, "Nugget Balance")
		assert.Contains(t, sentEmbed.Description, "350")
	}
}

func TestPayCommand_Success(t *testing.T) {
	ctx := SetupTestContext(t)
	cmd, handler := PayCommand()

	var gotBody map[string]interface{}
	ctx.Mux.HandleFunc("/api/v1/transfer", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		WriteJSON(w, map[string]string{"message": "Transfer complete"})
	})

	var sentEmbed *discordgo.MessageEmbed
	captureEdits(ctx, &sentEmbed)

	interaction := commandInteraction(cmd.Name,
		&discordgo.ApplicationCommandInteractionDataOption{
			Type: discordgo.ApplicationCommandOptionUser, Name: "user", Value: "target-user",
		},
		&discordgo.ApplicationCommandInteractionDataOption{
			Type: discordgo.ApplicationCommandOptionInteger, Name: "amount", Value: float64(75),
		},
	)

	handler(ctx.Session, interaction, ctx.APIClient)

	assert.Equal(t, "test-user", gotBody["from_id"])
	assert.Equal(t, "target-user", gotBody["to_id"])
	assert.Equal(t, float64(75), gotBody["amount"])

	assert.NotNil(t, sentEmbed)
	if sentEmbed != nil {
		assert.Contains(t, sentEmbed.Title, "Payment Sent")
		assert.Contains(t, sentEmbed.Description, "75")
	}
}

func TestPayCommand_InsufficientFunds(t *testing.T) {
	ctx := SetupTestContext(t)
	cmd, handler := PayCommand()

	ctx.Mux.HandleFunc("/api/v1/transfer", func(w http.ResponseWriter, r *http.Request) {
		WriteJSONStatus(w, http.StatusBadRequest, map[string]string{"error": "Not enough nuggets"})
	})

	var sentContent string
	ctx.DiscordMocks.RoundTripFunc = func(req *http.Request) (*http.Response, error) {
		if req.Method == http.MethodPatch {
			var body discordgo.WebhookEdit
			_ = json.NewDecoder(req.Body).Decode(&body)
			if body.Content != nil {
				sentContent = *body.Content
			}
		}
		return JSONResponse("{}"), nil
	}

	interaction := commandInteraction(cmd.Name,
		&discordgo.ApplicationCommandInteractionDataOption{
			Type: discordgo.ApplicationCommandOptionUser, Name: "user", Value: "target-user",
		},
		&discordgo.ApplicationCommandInteractionDataOption{
			Type: discordgo.ApplicationCommandOptionInteger, Name: "amount", Value: float64(9999),
		},
	)

	handler(ctx.Session, interaction, ctx.APIClient)

	assert.Equal(t, MsgInsufficientFunds, sentContent)
}

func TestGrantCommand_Success(t *testing.T) {
	ctx := SetupTestContext(t)
	cmd, handler := GrantCommand()

	ctx.Mux.HandleFunc("/api/v1/admin/credit", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		WriteJSON(w, map[string]interface{}{"account_id": "target-user", "new_balance": 540})
	})

	var sentEmbed *discordgo.MessageEmbed
	captureEdits(ctx, &sentEmbed)

	interaction := commandInteraction(cmd.Name,
		&discordgo.ApplicationCommandInteractionDataOption{
			Type: discordgo.ApplicationCommandOptionUser, Name: "user", Value: "target-user",
		},
		&discordgo.ApplicationCommandInteractionDataOption{
			Type: discordgo.ApplicationCommandOptionInteger, Name: "amount", Value: float64(40),
		},
	)

	handler(ctx.Session, interaction, ctx.APIClient)

	assert.NotNil(t, sentEmbed)
	if sentEmbed != nil {
		assert.Contains(t, sentEmbed.Title, "Balance Adjusted")
		assert.Contains(t, sentEmbed.Description, "540")
		assert.Equal(t, FooterNuggetBotAdmin, sentEmbed.Footer.Text)
	}
}
