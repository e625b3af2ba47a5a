package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var hints = [tabCount]string{
	tabDashboard: "←/→ month  t today  a add event  tab switch  q quit",
	tabBoard:     "←/→ column  enter pick/drop  a add  e edit  d delete  q quit",
	tabEvents:    "↑/↓ move  a add  e edit  d delete  q quit",
	tabResources: "↑/↓ move  f filter  a add  e edit  d delete  q quit",
	tabFeeds:     "↑/↓ move  enter expand  f filter  a add  e edit  d delete  q quit",
}

func (a *App) renderStatusBar(width int) string {
	left := a.statusLeft()
	if a.err != nil {
		left = errorStyle.Render("error: " + a.err.Error())
	} else if a.status != "" {
		left = a.status
	}

	right := " " + hints[a.tab] + " "
	switch a.mode {
	case modeForm:
		right = " tab next  enter save  esc cancel "
	case modeConfirm:
		right = " y delete  n cancel "
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 0 {
		gap = 0
	}
	return statusBarStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

func (a *App) statusLeft() string {
	switch a.tab {
	case tabBoard:
		return fmt.Sprintf("%d tasks", len(a.tasks))
	case tabEvents:
		return fmt.Sprintf("%d events", len(a.events))
	case tabResources:
		return fmt.Sprintf("%d/%d resources", len(a.visibleResources()), len(a.resources))
	case tabFeeds:
		return fmt.Sprintf("%d/%d notes", len(a.visibleFeeds()), len(a.feeds))
	}
	return fmt.Sprintf("%d-%02d", a.view.Year, int(a.view.Month))
}
