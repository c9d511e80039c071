package handler

import (
	"log/slog"
	"sort"

	"github.com/yoyozbi/calendarbot/src-server/utils"

	"github.com/bwmarrin/discordgo"
)

func Help(as *utils.AppState) {
	id := "help"
	as.AddAppCmdHandler(id, helpHandler(as))
	as.AddAppCmdInfo(id, &discordgo.ApplicationCommand{
		Name:        id,
		Description: "List every command the bot understands.",
	})
}

func helpHandler(as *utils.AppState) func(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) error {
		descriptions := make(map[string]string)
		as.IterateAppCmdDescription(func(name, description string) {
			descriptions[name] = description
		})

		if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Flags:  discordgo.MessageFlagsEphemeral,
				Embeds: []*discordgo.MessageEmbed{helpEmbed(descriptions)},
			},
		}); err != nil {
			slog.Warn("helpHandler: can't respond", "error", err)
		}
		return nil
	}
}

func helpEmbed(descriptions map[string]string) *discordgo.MessageEmbed {
	names := make([]string, 0, len(descriptions))
	for name := range descriptions {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]*discordgo.MessageEmbedField, 0, len(names))
	for _, name := range names {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  "/" + name,
			Value: descriptions[name],
		})
	}
	return &discordgo.MessageEmbed{
		Title:  "Commands",
		Fields: fields,
	}
}
