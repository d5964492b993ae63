package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Styles (defined at package init for reuse)
var (
	styleGreen = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	styleRed   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	styleGray  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleDim   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	stylePanel = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)

	styleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			Padding(0, 1)

	styleEventInfo  = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	styleEventWarn  = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	styleEventError = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := m.renderHeader()
	prog := m.renderProgress()
	market := m.renderMarket()
	population := m.renderPopulation()
	events := m.renderEvents()
	footer := m.renderFooter()

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		prog,
		market,
		population,
		events,
		footer,
	)
}

func (m Model) renderHeader() string {
	runtime := time.Since(m.snapshot.StartTime)
	return styleHeader.Render(fmt.Sprintf(
		"%s │ step=%d gen=%d │ rate=%.0f/s │ runtime=%s",
		m.snapshot.ProjectName,
		m.snapshot.Step,
		m.snapshot.Generation,
		m.snapshot.RatePerSec,
		FormatDuration(runtime),
	))
}

func (m Model) renderProgress() string {
	if m.snapshot.TargetSteps <= 0 {
		return stylePanel.Render(fmt.Sprintf(
			"Steps: %d │ next reproduction in %d", m.snapshot.Step, m.snapshot.NextReproduceIn,
		))
	}
	pct := float64(m.snapshot.Step) / float64(m.snapshot.TargetSteps)
	if pct > 1 {
		pct = 1
	}
	return stylePanel.Render(fmt.Sprintf(
		"%s %d/%d │ next reproduction in %d",
		m.progress.ViewAs(pct), m.snapshot.Step, m.snapshot.TargetSteps, m.snapshot.NextReproduceIn,
	))
}

func (m Model) renderMarket() string {
	var lines []string
	for _, sec := range m.snapshot.Securities {
		lines = append(lines, fmt.Sprintf(
			"%-28s %s │ cap=%s",
			sec.Name,
			m.priceColor(sec.Price, sec.PrevPrice),
			formatCap(sec.MarketCap),
		))
	}
	if len(lines) == 0 {
		lines = []string{styleDim.Render("(no securities)")}
	}
	return stylePanel.Render("Market:\n" + strings.Join(lines, "\n"))
}

func (m Model) renderPopulation() string {
	bestColor := m.bestChangeColor(m.snapshot.BestValue)
	return stylePanel.Render(fmt.Sprintf(
		"Population: best=%s │ median=%.2f │ worst=%.2f │ trend=%d qlearn=%d",
		bestColor,
		m.snapshot.MedianValue,
		m.snapshot.WorstValue,
		m.snapshot.TrendFollowers,
		m.snapshot.QLearners,
	))
}

func (m Model) renderEvents() string {
	// viewport.Model is a struct, not a pointer - never nil
	// Content is updated in Update() on MsgEvent, not here
	if !m.ready || m.width == 0 {
		return stylePanel.Render("Events: initializing...")
	}
	return stylePanel.Render("Events (scroll):") + "\n" + m.viewport.View()
}

func (m Model) renderFooter() string {
	hints := []string{"q: quit", "p: pause"}
	if m.paused {
		hints = append(hints, "(PAUSED)")
	}

	hintStrings := make([]string, len(hints))
	for i, h := range hints {
		hintStrings[i] = styleDim.Render(h)
	}

	return styleGray.Render("│ " + strings.Join(hintStrings, " │ ") + " │")
}

// Color helper functions

func (m Model) priceColor(price, prev float64) string {
	if price > prev {
		return styleGreen.Render(fmt.Sprintf("%.2f ↑", price))
	}
	if price < prev {
		return styleRed.Render(fmt.Sprintf("%.2f ↓", price))
	}
	return styleDim.Render(fmt.Sprintf("%.2f =", price))
}

func (m Model) bestChangeColor(best float64) string {
	if best > m.prevBest {
		return styleGreen.Render(fmt.Sprintf("%.2f ↑", best))
	}
	if best < m.prevBest {
		return styleRed.Render(fmt.Sprintf("%.2f ↓", best))
	}
	return styleDim.Render(fmt.Sprintf("%.2f =", best))
}

// formatCap renders a market cap compactly (1.2M, 350.0K).
func formatCap(cap float64) string {
	switch {
	case cap >= 1e9:
		return fmt.Sprintf("%.2fB", cap/1e9)
	case cap >= 1e6:
		return fmt.Sprintf("%.2fM", cap/1e6)
	case cap >= 1e3:
		return fmt.Sprintf("%.1fK", cap/1e3)
	}
	return fmt.Sprintf("%.0f", cap)
}

func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	if minutes > 0 {
		return fmt.Sprintf("%dh%dm", hours, minutes)
	}
	return fmt.Sprintf("%dh", hours)
}
