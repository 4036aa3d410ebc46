package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskflow/internal/theme"
)

// Layout manages the terminal layout dimensions: a one-line header, an
// optional one-line banner, the content area, and a one-line status bar.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	BannerHeight    int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		BannerHeight:    1,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height available for the main content area,
// accounting for the header, banner line, and status bar.
func (l Layout) ContentHeight() int {
	return l.Height - l.HeaderHeight - l.BannerHeight - l.StatusBarHeight
}

// RenderHeader renders the top header bar with a title and a right-aligned
// user label.
func (l Layout) RenderHeader(title string, userLabel string) string {
	titleRendered := theme.HeaderStyle.Render(title)

	userRendered := theme.HeaderStyle.
		Align(lipgloss.Right).
		Render(userLabel)

	gap := l.Width -
		lipgloss.Width(titleRendered) -
		lipgloss.Width(userRendered)
	if gap < 0 {
		gap = 0
	}

	filler := theme.HeaderStyle.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(theme.HeaderStyle.GetBackground()).
			Render(""),
	)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		titleRendered,
		filler,
		userRendered,
	)
}

// RenderBanner renders the transient message line. An empty message
// yields a blank line so the content area does not jump.
func (l Layout) RenderBanner(message string, isError bool) string {
	if message == "" {
		return lipgloss.NewStyle().Width(l.Width).Render("")
	}

	style := theme.SuccessBannerStyle
	if isError {
		style = theme.ErrorBannerStyle
	}

	rendered := style.Render(message)
	gap := l.Width - lipgloss.Width(rendered)
	if gap < 0 {
		gap = 0
	}
	return rendered + lipgloss.NewStyle().Width(gap).Render("")
}

// RenderStatusBar renders the bottom status bar with keyboard hints.
func (l Layout) RenderStatusBar(hints string) string {
	rendered := theme.StatusBarStyle.Render(hints)

	gap := l.Width - lipgloss.Width(rendered)
	if gap < 0 {
		gap = 0
	}

	filler := theme.StatusBarStyle.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(theme.StatusBarStyle.GetBackground()).
			Render(""),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered, filler)
}

// RenderWithFrame composes a full terminal view by vertically joining the
// header, banner line, content area, and status bar.
func (l Layout) RenderWithFrame(
	header string,
	banner string,
	content string,
	statusBar string,
) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		banner,
		content,
		statusBar,
	)
}
