package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/eventide-app/eventide/internal/schedule"
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")). // Bright cyan
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")) // Medium gray

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")). // Coral red
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114")). // Soft green
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("222")) // Warm yellow

	LockedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("215")). // Orange
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// Formatter renders console output, optionally without color.
type Formatter struct {
	colored bool
}

func NewFormatter(colored bool) *Formatter {
	return &Formatter{colored: colored}
}

func (f *Formatter) style(s lipgloss.Style, text string) string {
	if !f.colored {
		return text
	}
	return s.Render(text)
}

// Header renders a section header line.
func (f *Formatter) Header(text string) string {
	return f.style(HeaderStyle, text)
}

// Success renders a success status line.
func (f *Formatter) Success(text string) string {
	return f.style(SuccessStyle, text)
}

// Error renders an error status line.
func (f *Formatter) Error(text string) string {
	return f.style(ErrorStyle, text)
}

// Info renders an informational line.
func (f *Formatter) Info(text string) string {
	return f.style(InfoStyle, text)
}

// Schedule renders every item as a labeled block, separated by rules.
func (f *Formatter) Schedule(items []schedule.Item) string {
	if len(items) == 0 {
		return f.style(DimStyle, "No events or reminders found in the database.")
	}

	rule := f.style(DimStyle, strings.Repeat("-", 50))
	var b strings.Builder
	b.WriteString(f.Header("Current Schedule:") + "\n")
	b.WriteString(rule + "\n")
	for _, it := range items {
		b.WriteString(f.item(it))
		b.WriteString(rule + "\n")
	}
	return b.String()
}

func (f *Formatter) item(it schedule.Item) string {
	var b strings.Builder
	line := func(label, value string) {
		b.WriteString(f.style(LabelStyle, label+": ") + value + "\n")
	}
	line("ID", fmt.Sprintf("%d", it.ID))
	line("Title", it.Title)
	line("Type", it.Type)
	line("Urgency", it.Urgency)
	line("Start", it.StartDate+" "+it.Start)
	line("End", it.EndDate+" "+it.End)
	line("Description", it.Description)
	if it.Locked {
		line("Locked", f.style(LockedStyle, "true"))
	} else {
		line("Locked", "false")
	}
	return b.String()
}

// Summary renders the AI summary as markdown for the terminal. Rendering
// failures fall back to the raw text.
func (f *Formatter) Summary(text string) string {
	if !f.colored {
		return text
	}
	rendered, err := glamour.Render(text, "dark")
	if err != nil {
		return text
	}
	return strings.TrimSpace(rendered)
}
