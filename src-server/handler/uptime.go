package handler

import (
	"fmt"
	"log/slog"

	"github.com/yoyozbi/calendarbot/src-server/utils"

	"github.com/bwmarrin/discordgo"
)

func Uptime(as *utils.AppState) {
	id := "uptime"
	as.AddAppCmdHandler(id, uptimeHandler(as))
	as.AddAppCmdInfo(id, &discordgo.ApplicationCommand{
		Name:        id,
		Description: "How long the bot has been running.",
	})
}

func uptimeHandler(as *utils.AppState) func(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) error {
		divMod := func(a, b int64) (int64, int64) { return a / b, a % b }

		seconds := int64(as.GetUptime().Seconds())
		minutes, seconds := divMod(seconds, 60)
		hours, minutes := divMod(minutes, 60)
		days, hours := divMod(hours, 24)

		if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Flags:   discordgo.MessageFlagsEphemeral,
				Content: fmt.Sprintf("Uptime: %dd %dh %dm %ds", days, hours, minutes, seconds),
			},
		}); err != nil {
			slog.Warn("uptimeHandler: can't respond", "error", err)
		}
		return nil
	}
}
