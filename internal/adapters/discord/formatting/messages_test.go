package formatting

import (
	"testing"
	"time"

	"crafty-bot/internal/core/domain"
)

func TestToDiscordEmbed(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	embed := domain.Embed{
		Title:       "🟢 Survival",
		Description: "All good",
		Color:       domain.ColorSuccess,
		Footer:      "Requested by steve",
		Timestamp:   ts,
	}
	embed.AddField("Players", "3/20", true).AddField("Uptime", "2h", false)

	got := ToDiscordEmbed(embed)

	if got.Title != embed.Title || got.Description != embed.Description || got.Color != embed.Color {
		t.Errorf("header mismatch: %+v", got)
	}
	if len(got.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(got.Fields))
	}
	if got.Fields[0].Name != "Players" || got.Fields[0].Value != "3/20" || !got.Fields[0].Inline {
		t.Errorf("unexpected first field: %+v", got.Fields[0])
	}
	if got.Fields[1].Inline {
		t.Error("second field should not be inline")
	}
	if got.Footer == nil || got.Footer.Text != "Requested by steve" {
		t.Errorf("unexpected footer: %+v", got.Footer)
	}
	if got.Timestamp != "2024-05-01T12:30:00Z" {
		t.Errorf("unexpected timestamp %q", got.Timestamp)
	}
}

func TestToDiscordEmbed_OmitsEmptyParts(t *testing.T) {
	got := ToDiscordEmbed(domain.Embed{Title: "x"})

	if got.Footer != nil {
		t.Error("footer should be nil when empty")
	}
	if got.Timestamp != "" {
		t.Errorf("timestamp should be empty, got %q", got.Timestamp)
	}
	if got.Fields != nil {
		t.Error("fields should be nil when empty")
	}
}
