package main

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/interop/trait"
)

// Trait families share a colour in the table and the explorer.
var (
	scalarColor    = lipgloss.AdaptiveColor{Light: "#1F6FEB", Dark: "#79C0FF"}
	containerColor = lipgloss.AdaptiveColor{Light: "#8250DF", Dark: "#D2A8FF"}
	callableColor  = lipgloss.AdaptiveColor{Light: "#BF8700", Dark: "#E3B341"}
	identityColor  = lipgloss.AdaptiveColor{Light: "#0A7B83", Dark: "#56D4DD"}
	nullColor      = lipgloss.AdaptiveColor{Light: "#6E7781", Dark: "#8B949E"}
	failColor      = lipgloss.AdaptiveColor{Light: "#CF222E", Dark: "#FF7B72"}
)

var (
	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Border(lipgloss.RoundedBorder(), false, false, true, false).
			BorderForeground(containerColor)

	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(callableColor)

	valueBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(scalarColor).
			Padding(0, 1)

	failBoxStyle = valueBoxStyle.BorderForeground(failColor).Foreground(failColor)

	hintStyle = lipgloss.NewStyle().Faint(true).Italic(true)

	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// traitColor picks the colour of the most specific trait family in s.
func traitColor(s trait.Set) lipgloss.TerminalColor {
	switch {
	case s.Has(trait.Null):
		return nullColor
	case s.HasAny(trait.Executable, trait.Instantiable):
		return callableColor
	case s.HasAny(trait.Members, trait.ArrayElements):
		return containerColor
	case s.HasAny(trait.HostObject, trait.ProxyObject, trait.Native):
		return identityColor
	}
	return scalarColor
}

// memberLabel renders a member name with its traits in the family colour.
func memberLabel(name string, s trait.Set) string {
	c := traitColor(s)
	return lipgloss.NewStyle().Bold(true).Foreground(c).Render(name) + " " +
		lipgloss.NewStyle().Faint(true).Foreground(c).Render(s.String())
}
