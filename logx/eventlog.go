package logx

import (
	"fmt"
	"time"

	"evomarket/tui"
)

// Convenience functions that forward to TUI

func LogReproduction(generation, step int, bestValue float64) {
	event := tui.Event{
		Timestamp: time.Now(),
		Type:      "REPRO",
		Severity:  "info",
		Message:   fmt.Sprintf("Generation %d spawned at step %d (best=%.2f)", generation, step, bestValue),
	}
	tui.PushEvent(event)
}

func LogNewBestValue(oldValue, newValue float64) {
	event := tui.Event{
		Timestamp: time.Now(),
		Type:      "BEST",
		Severity:  "info",
		Message:   fmt.Sprintf("Best portfolio improved: %.2f → %.2f", oldValue, newValue),
	}
	tui.PushEvent(event)
}

func LogGenerationLogged(path string, generation int) {
	event := tui.Event{
		Timestamp: time.Now(),
		Type:      "GEN",
		Severity:  "info",
		Message:   fmt.Sprintf("Generation %d appended to %s", generation, path),
	}
	tui.PushEvent(event)
}

func LogSimWarning(message string) {
	event := tui.Event{
		Timestamp: time.Now(),
		Type:      "WARN",
		Severity:  "warning",
		Message:   message,
	}
	tui.PushEvent(event)
}
