package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/opmodel/abinspect/internal/output"
	"github.com/opmodel/abinspect/internal/tree"
)

type theme struct {
	panel        lipgloss.Style
	panelFocused lipgloss.Style
	title        lipgloss.Style
	label        lipgloss.Style
	text         lipgloss.Style
	muted        lipgloss.Style
	help         lipgloss.Style
	noun         lipgloss.Style
}

func newTheme() theme {
	return theme{
		panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(output.ColorDimGray).
			Padding(0, 1),
		panelFocused: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(output.ColorBlue).
			Padding(0, 1),
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(output.ColorBlue),
		label: lipgloss.NewStyle().
			Bold(true).
			Width(14),
		text:  lipgloss.NewStyle(),
		muted: output.StyleDim,
		help:  output.StyleDim,
		noun:  output.StyleNoun,
	}
}

func (t theme) panelStyle(focused bool) lipgloss.Style {
	if focused {
		return t.panelFocused
	}
	return t.panel
}

func (t theme) state(s tree.State) lipgloss.Style {
	return output.StateStyle(s.String())
}
