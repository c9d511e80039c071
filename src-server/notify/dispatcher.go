package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Sink is the chat platform boundary: create or edit one message in
// one channel. Implementations must give up when ctx expires.
type Sink interface {
	Send(ctx context.Context, channelID string, embed *discordgo.MessageEmbed) (string, error)
	Edit(ctx context.Context, channelID, messageID string, embed *discordgo.MessageEmbed) error
}

// DiscordSink delivers over a live gateway session. SendLatency, when
// set, receives the duration of each create call in microseconds.
type DiscordSink struct {
	Session     *discordgo.Session
	SendLatency chan<- float64
}

var _ Sink = (*DiscordSink)(nil)

func (d *DiscordSink) Send(ctx context.Context, channelID string, embed *discordgo.MessageEmbed) (string, error) {
	startTimer := time.Now()
	msg, err := d.Session.ChannelMessageSendEmbed(channelID, embed, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("(*DiscordSink).Send: %w", err)
	}
	select {
	case d.SendLatency <- float64(time.Since(startTimer).Microseconds()):
	default:
	}
	return msg.ID, nil
}

func (d *DiscordSink) Edit(ctx context.Context, channelID, messageID string, embed *discordgo.MessageEmbed) error {
	if _, err := d.Session.ChannelMessageEditEmbed(channelID, messageID, embed, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("(*DiscordSink).Edit: %w", err)
	}
	return nil
}

// Dispatch delivers a notification, editing the previous message when
// one exists and still accepts edits, creating a fresh one otherwise.
// Returns the id of the message now carrying the notification. A ctx
// deadline covers the whole edit-then-create attempt.
func Dispatch(ctx context.Context, sink Sink, channelID string, embed *discordgo.MessageEmbed, priorMessageID string) (string, error) {
	if priorMessageID != "" {
		if err := sink.Edit(ctx, channelID, priorMessageID, embed); err == nil {
			return priorMessageID, nil
		} else {
			// deleted message, lost permission, flaky network; a new
			// message replaces it either way
			slog.Warn("Dispatch: can't edit notification, sending a new one",
				"channel_id", channelID,
				"message_id", priorMessageID,
				"error", err)
		}
	}
	messageID, err := sink.Send(ctx, channelID, embed)
	if err != nil {
		return "", fmt.Errorf("Dispatch: can't send notification: %w", err)
	}
	return messageID, nil
}
