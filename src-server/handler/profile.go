package handler

import (
	"fmt"
	"log/slog"

	"github.com/yoyozbi/calendarbot/src-server/utils"

	"github.com/bwmarrin/discordgo"
)

// Profile reports when a member's account was created, defaulting to
// whoever invoked the command.
func Profile(as *utils.AppState) {
	id := "profile"
	as.AddAppCmdHandler(id, profileHandler(as))
	as.AddAppCmdInfo(id, &discordgo.ApplicationCommand{
		Name:        id,
		Description: "Show when an account was created.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "user",
				Description: "Selected user",
			},
		},
	})
}

func profileHandler(as *utils.AppState) func(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) error {
		user := func() *discordgo.User {
			for _, opt := range i.ApplicationCommandData().Options {
				if opt.Name == "user" {
					return opt.UserValue(s)
				}
			}
			if i.Member != nil {
				return i.Member.User
			}
			return i.User
		}()
		if user == nil {
			return fmt.Errorf("profileHandler: can't resolve user")
		}

		createdAt, err := discordgo.SnowflakeTimestamp(user.ID)
		if err != nil {
			return fmt.Errorf("profileHandler: can't parse snowflake: %w", err)
		}

		if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Flags:   discordgo.MessageFlagsEphemeral,
				Content: fmt.Sprintf("%s's account was created at %s", user.Username, createdAt.UTC().Format("2006-01-02 15:04:05 UTC")),
			},
		}); err != nil {
			slog.Warn("profileHandler: can't respond", "error", err)
		}
		return nil
	}
}
