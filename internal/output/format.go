// Package output renders portal records for the terminal.
package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
)

// ANSI color codes
const (
	Reset     = "\033[0m"
	Bold      = "\033[1m"
	Dim       = "\033[2m"
	Red       = "\033[31m"
	Green     = "\033[32m"
	Yellow    = "\033[33m"
	Blue      = "\033[34m"
	Magenta   = "\033[35m"
	Cyan      = "\033[36m"
	White     = "\033[37m"
	BoldRed   = "\033[1;31m"
	BoldGreen = "\033[1;32m"
)

var useColor = true

// DisableColor disables colored output.
func DisableColor() {
	useColor = false
}

// EnableColor enables colored output.
func EnableColor() {
	useColor = true
}

// IsColorEnabled returns whether color output is enabled.
func IsColorEnabled() bool {
	return useColor && isTerminal()
}

func isTerminal() bool {
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// Color applies a color to text if color is enabled.
func Color(text, color string) string {
	if !IsColorEnabled() {
		return text
	}
	return color + text + Reset
}

// Badge is the label and color shown for an enum value.
type Badge struct {
	Label string
	Color string
}

// badges maps every status, priority, outcome and activity value shown by
// the portal onto its badge. Keys are lower case.
var badges = map[string]Badge{
	// sponsor status
	"active":    {"Active", Green},
	"inactive":  {"Inactive", Dim},
	"suspended": {"Suspended", Red},
	// requirement status; "pending" is shared with sponsors
	"pending":     {"Pending", Yellow},
	"in-progress": {"In Progress", Blue},
	"completed":   {"Completed", Green},
	"overdue":     {"Overdue", BoldRed},
	// priority
	"high":   {"High", Red},
	"medium": {"Medium", Yellow},
	"low":    {"Low", Green},
	// history and version status
	"approved":       {"Approved", Green},
	"rejected":       {"Rejected", Red},
	"submitted":      {"Submitted", Blue},
	"pending review": {"Pending Review", Yellow},
	// activity type
	"submission":  {"Submission", Blue},
	"requirement": {"Requirement", Magenta},
	"approval":    {"Approval", Green},
	"rejection":   {"Rejection", Red},
}

// BadgeFor returns the badge of value. Unknown values keep their text and
// render white.
func BadgeFor(value string) Badge {
	if b, ok := badges[strings.ToLower(strings.TrimSpace(value))]; ok {
		return b
	}
	return Badge{Label: value, Color: White}
}

// FormatBadge renders the badge of value.
func FormatBadge(value string) string {
	b := BadgeFor(value)
	return Color(b.Label, b.Color)
}

// ProgressBar creates a visual progress bar.
func ProgressBar(percent float64, width int) string {
	filled := int(percent / 100.0 * float64(width))
	filled = max(0, min(filled, width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return Color("["+bar+"]", rateColor(percent))
}

// rateColor grades a completion rate.
func rateColor(percent float64) string {
	switch {
	case percent >= 80:
		return Green
	case percent >= 50:
		return Yellow
	default:
		return Red
	}
}

// FormatPercent formats a completion rate with color.
func FormatPercent(percent int) string {
	return Color(fmt.Sprintf("%d%%", percent), rateColor(float64(percent)))
}

// FormatBytes formats a byte count for export summaries, e.g. "1.2 kB".
func FormatBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}

// FormatCount formats a count with thousands separators.
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

// Header creates a formatted header line.
func Header(text string, width int) string {
	return Color(rule(text, width, "="), Bold)
}

// SubHeader creates a formatted subheader line.
func SubHeader(text string, width int) string {
	return Color(rule(text, width, "-"), Dim)
}

func rule(text string, width int, fill string) string {
	padding := max(0, (width-len(text)-2)/2)
	line := strings.Repeat(fill, padding) + " " + text + " " + strings.Repeat(fill, padding)
	if len(line) < width {
		line += strings.Repeat(fill, width-len(line))
	}
	return line
}

// Checkmark returns a colored checkmark or X.
func Checkmark(ok bool) string {
	if ok {
		return Color("✓", Green)
	}
	return Color("✗", Red)
}

// Truncate truncates text to a maximum width with ellipsis.
func Truncate(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) <= maxWidth {
		return text
	}
	if maxWidth <= 3 {
		return string(runes[:maxWidth])
	}
	return string(runes[:maxWidth-3]) + "..."
}
