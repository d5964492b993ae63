package logx

import (
	"fmt"
	"strings"
	"time"
)

// LogProgress - single line progress log
// step: steps simulated so far
// generation: reproduction passes completed
// rate: steps per second
// best: best live portfolio value
func LogProgress(step, generation int, rate float64, best float64) {
	fmt.Printf("Step: %s | Gen: %d | Rate: %.0f/s | Best: %.2f\n",
		formatNumber(step), generation, rate, best)
}

// LogMarketCaps - per-step market cap line, one entry per security
func LogMarketCaps(step int, names []string, caps []float64) {
	parts := make([]string, len(names))
	for i := range names {
		parts[i] = fmt.Sprintf("%s=%.0f", names[i], caps[i])
	}
	fmt.Printf("%s  %s  step=%d  %s\n",
		C(gray, time.Now().UTC().Format("15:04:05Z")),
		Channel("MKT "),
		step, strings.Join(parts, "  "),
	)
}

// LogReproductionPass - reproduction summary line
func LogReproductionPass(generation, step int, best, median, worst float64) {
	fmt.Printf("%s  %s  gen=%d step=%d best=%s median=%.2f worst=%s\n",
		C(gray, time.Now().UTC().Format("15:04:05Z")),
		Channel("REPR"),
		generation, step,
		Successf("%.2f", best), median, Errorf("%.2f", worst),
	)
}

// LogRunSummary - end-of-run summary
func LogRunSummary(steps, generations int, elapsed time.Duration, best float64) {
	fmt.Printf("\nSimulated %s steps, %d generations in %s (best portfolio: %.2f)\n",
		formatNumber(steps), generations, formatDuration(elapsed), best)
}

// formatDuration formats a duration in a human-readable way
// (e.g., "1h23m" or "45m32s" or "23s")
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", hours, minutes)
}

// formatNumber formats a number with thousands separators (e.g., 12,345)
func formatNumber(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var result []string
	for i := len(s); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		result = append([]string{s[start:i]}, result...)
	}
	return strings.Join(result, ",")
}
