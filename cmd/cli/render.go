package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"thumbgenius/internal/generator"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff3d57")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8b93a7"))

	headerBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#ff3d57")).
			Padding(0, 1)
)

// render boxes the title and metadata only. The prompt goes underneath as
// plain text so a terminal copy gets it without wrapping or border runes.
func render(res generator.Result) string {
	source := "AI prompt"
	if res.Source == generator.SourceFallback {
		source = "local template"
	}

	lines := []string{
		titleStyle.Render("ThumbGenius"),
		labelStyle.Render("source: ") + source,
	}
	if res.Hook != "" {
		lines = append(lines, labelStyle.Render("hook: ")+res.Hook)
	}
	if res.StyleAnalysis != "" {
		lines = append(lines, labelStyle.Render("reference: ")+res.StyleAnalysis)
	}

	return headerBox.Render(strings.Join(lines, "\n")) + "\n\n" + res.Prompt
}
