// Package styles holds the terminal palette shared by the CLI commands.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/gerunddev/hybridnote/parser"
)

// Monokai Pro color palette
const (
	Background = "#2D2A2E"
	Foreground = "#FCFCFA"

	Red     = "#FF6188" // Errors
	Orange  = "#FC9867" // Warnings, org
	Yellow  = "#FFD866" // Highlights, latex
	Green   = "#A9DC76" // Success, markdown
	Cyan    = "#78DCE8" // Code
	Purple  = "#AB9DF2" // Custom
	Magenta = "#FF6188" // Titles

	Comment = "#727072" // Dim text, help
	Border  = "#5B595C" // Borders, separators
)

// Common styles
var (
	SuccessStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Green))
	ErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(Red))
	WarningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Orange))
	DimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color(Comment))
	TitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(Magenta))
	HighlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Yellow)).Bold(true)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(Magenta))

	// BorderStyle colours table border glyphs; it must not carry a border itself
	BorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Border))
)

var kindColors = map[parser.SyntaxKind]string{
	parser.Markdown: Green,
	parser.Org:      Orange,
	parser.LaTeX:    Yellow,
	parser.Code:     Cyan,
	parser.Custom:   Purple,
}

// KindStyle returns the style used to label blocks of kind
func KindStyle(kind parser.SyntaxKind) lipgloss.Style {
	color, ok := kindColors[kind]
	if !ok {
		color = Foreground
	}
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color))
}
