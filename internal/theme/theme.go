package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/listly/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	colorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	colorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	colorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	colorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	colorOrange = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	colorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	colorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	colorSubtle = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	colorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// Styles is the resolved set of styles for one theme mode.
type Styles struct {
	Mode string

	Accent lipgloss.TerminalColor
	Text   lipgloss.TerminalColor
	Muted  lipgloss.TerminalColor
	Warn   lipgloss.TerminalColor
	Error  lipgloss.TerminalColor
	Good   lipgloss.TerminalColor

	// Partial marks lists that are started but not finished.
	Partial lipgloss.TerminalColor

	// Header is used for the application title bar.
	Header    lipgloss.Style
	StatusBar lipgloss.Style
	Title     lipgloss.Style
	Panel     lipgloss.Style

	ListItem     lipgloss.Style
	SelectedItem lipgloss.Style
	Dimmed       lipgloss.Style
	Done         lipgloss.Style
	Help         lipgloss.Style
	Status       lipgloss.Style
	ErrorText    lipgloss.Style

	// Card frames the template item shown during a swipe.
	Card       lipgloss.Style
	CardAccept lipgloss.Style
	CardReject lipgloss.Style
}

// New builds the styles for mode ("light", "dark" or "auto"). Unknown
// modes fall back to auto.
func New(mode string) Styles {
	pick := resolver(mode)

	s := Styles{
		Mode:    mode,
		Accent:  pick(colorBlue),
		Text:    pick(colorWhite),
		Muted:   pick(colorGray),
		Warn:    pick(colorYellow),
		Error:   pick(colorRed),
		Good:    pick(colorGreen),
		Partial: pick(colorOrange),
	}
	subtle := pick(colorSubtle)
	border := pick(colorBorder)

	s.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.Text).
		Background(s.Accent).
		Padding(0, 1)

	s.StatusBar = lipgloss.NewStyle().
		Foreground(s.Text).
		Background(subtle).
		Padding(0, 1)

	s.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.Text).
		MarginBottom(1)

	s.Panel = lipgloss.NewStyle().
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border)

	s.ListItem = lipgloss.NewStyle().PaddingLeft(2)

	s.SelectedItem = lipgloss.NewStyle().
		PaddingLeft(1).
		Bold(true).
		Foreground(s.Accent).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(s.Accent)

	s.Dimmed = lipgloss.NewStyle().Foreground(s.Muted)
	s.Done = lipgloss.NewStyle().Foreground(s.Muted).Strikethrough(true)
	s.Help = lipgloss.NewStyle().Foreground(s.Muted).Italic(true)
	s.Status = lipgloss.NewStyle().Foreground(s.Warn).Italic(true)
	s.ErrorText = lipgloss.NewStyle().Foreground(s.Error).Bold(true)

	s.Card = lipgloss.NewStyle().
		Padding(1, 4).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Align(lipgloss.Center)
	s.CardAccept = s.Card.BorderForeground(s.Good)
	s.CardReject = s.Card.BorderForeground(s.Error)

	return s
}

// PriorityStyle returns a color-coded style for a template item priority.
func (s Styles) PriorityStyle(priority string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch priority {
	case model.PriorityHigh:
		return base.Foreground(s.Error)
	case model.PriorityMedium:
		return base.Foreground(s.Warn)
	case model.PriorityLow:
		return base.Foreground(s.Accent)
	default:
		return base.Foreground(s.Muted)
	}
}

// ProgressStyle colors a completion counter.
func (s Styles) ProgressStyle(p model.Progress) lipgloss.Style {
	switch {
	case p.Done():
		return lipgloss.NewStyle().Foreground(s.Good)
	case p.Completed > 0:
		return lipgloss.NewStyle().Foreground(s.Partial)
	default:
		return lipgloss.NewStyle().Foreground(s.Muted)
	}
}

func resolver(mode string) func(lipgloss.AdaptiveColor) lipgloss.TerminalColor {
	switch mode {
	case model.ThemeLight:
		return func(c lipgloss.AdaptiveColor) lipgloss.TerminalColor { return lipgloss.Color(c.Light) }
	case model.ThemeDark:
		return func(c lipgloss.AdaptiveColor) lipgloss.TerminalColor { return lipgloss.Color(c.Dark) }
	default:
		return pickAuto
	}
}

func pickAuto(c lipgloss.AdaptiveColor) lipgloss.TerminalColor { return c }
