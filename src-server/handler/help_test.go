package handler

import (
	"testing"
)

func TestHelpEmbed(t *testing.T) {
	embed := helpEmbed(map[string]string{
		"uptime":  "How long the bot has been running.",
		"help":    "List every command the bot understands.",
		"ping":    "A ping command.",
		"profile": "Show when an account was created.",
	})

	if embed.Title != "Commands" {
		t.Error("wrong title", embed.Title)
	}
	if len(embed.Fields) != 4 {
		t.Fatal("expected one field per command, got", len(embed.Fields))
	}
	// fields come out sorted by name so the listing is stable
	for i, name := range []string{"/help", "/ping", "/profile", "/uptime"} {
		if embed.Fields[i].Name != name {
			t.Error("wrong field order", i, embed.Fields[i].Name)
		}
	}
	if embed.Fields[1].Value != "A ping command." {
		t.Error("wrong description", embed.Fields[1].Value)
	}
}

func TestHelpEmbedEmpty(t *testing.T) {
	embed := helpEmbed(map[string]string{})
	if len(embed.Fields) != 0 {
		t.Error("no commands should mean no fields")
	}
}
