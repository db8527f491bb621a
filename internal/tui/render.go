package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/jonathan/staffpilot/internal/conversation"
	"github.com/jonathan/staffpilot/internal/observability"
)

func label(origin conversation.Origin) string {
	switch origin {
	case conversation.OriginUser:
		return userStyle.Render("You")
	case conversation.OriginAssistant:
		return assistantStyle.Render("StaffPilot")
	default:
		return localStyle.Render("Console")
	}
}

// renderTimeline lays out every message in order. Assistant text is rendered
// as markdown when a renderer is available.
func renderTimeline(timeline []conversation.Message, renderer *glamour.TermRenderer) string {
	var sb strings.Builder
	for _, m := range timeline {
		sb.WriteString(label(m.Origin))
		sb.WriteString("\n")
		sb.WriteString(renderText(m, renderer))
		sb.WriteString("\n")
		if m.HasTable() {
			sb.WriteString(observability.RenderTable(m.Table.Headers, m.Table.Rows))
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderText(m conversation.Message, renderer *glamour.TermRenderer) string {
	if m.Origin != conversation.OriginAssistant || renderer == nil {
		return m.Text
	}
	out, err := renderer.Render(m.Text)
	if err != nil {
		return m.Text
	}
	return strings.Trim(out, "\n")
}
