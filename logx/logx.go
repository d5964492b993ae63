package logx

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/term"
)

const (
	reset   = "\x1b[0m"
	bold    = "\x1b[1m"
	gray    = "\x1b[90m"
	cyan    = "\x1b[36m"
	blue    = "\x1b[34m"
	yellow  = "\x1b[33m"
	green   = "\x1b[32m"
	magenta = "\x1b[35m"
	red     = "\x1b[31m"
)

var enableColor = true

func init() {
	// Disable color if NO_COLOR is set or stdout is not a terminal
	if os.Getenv("NO_COLOR") != "" {
		enableColor = false
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		enableColor = false
	}
}

// C returns a color-coded string (or plain string if color disabled)
func C(color, s string) string {
	if !enableColor {
		return s
	}
	return color + s + reset
}

// Cf returns a color-coded formatted string
func Cf(color, format string, args ...any) string {
	return C(color, fmt.Sprintf(format, args...))
}

// Channel returns a consistently-padded colored channel tag.
// Pass 4-char channel names: "STEP", "MKT ", "REPR", "GEN " (trailing spaces
// pad the shorter ones).
func Channel(ch string) string {
	color := map[string]string{
		"STEP": cyan,
		"MKT ": blue,
		"REPR": magenta,
		"GEN ": green,
	}[ch]

	label := fmt.Sprintf("[%-4s]", ch)
	return C(color, label)
}

// TS returns a gray UTC timestamp (caller controls time value)
func TS(ts string) string {
	return C(gray, ts)
}

// Colored output helpers for common use cases

// Success returns a green success message
func Success(s string) string {
	return C(green, s)
}

func Successf(format string, args ...any) string {
	return C(green, fmt.Sprintf(format, args...))
}

// Error returns a red error message
func Error(s string) string {
	return C(red, s)
}

func Errorf(format string, args ...any) string {
	return C(red, fmt.Sprintf(format, args...))
}

// Warn returns a yellow warning message
func Warn(s string) string {
	return C(yellow, s)
}

func Warnf(format string, args ...any) string {
	return C(yellow, fmt.Sprintf(format, args...))
}

// Highlight returns a bold highlighted message
func Highlight(s string) string {
	return C(bold, s)
}

// Dim returns a gray dimmed message (for less important info)
func Dim(s string) string {
	return C(gray, s)
}

func Dimf(format string, args ...any) string {
	return C(gray, fmt.Sprintf(format, args...))
}

// ValueColor color-codes a portfolio value against the starting cash:
// above is green, below is red, flat is gray.
func ValueColor(value, initialCash float64) string {
	s := fmt.Sprintf("%.2f", value)
	if value > initialCash {
		return Success(s)
	}
	if value < initialCash {
		return Error(s)
	}
	return Dim(s)
}

// PriceColor color-codes a price move: up green, down red, flat gray.
func PriceColor(price, prev float64) string {
	s := fmt.Sprintf("%.2f", price)
	if price > prev {
		return Success(s)
	}
	if price < prev {
		return Error(s)
	}
	return Dim(s)
}

// FormatDuration formats a duration in a human-readable way
// (e.g., "1h23m" or "45m" or "23s")
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
