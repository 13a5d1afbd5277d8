package content

import (
	"fmt"
	"strings"
)

// Theme is one visual variant of the shared popup. Variants differ only by
// color, so they are values rather than separate templates.
type Theme struct {
	Color    string
	Gradient string
	Badge    string
}

const defaultColor = "blue"

// ThemeFor derives a theme from a tailwind text class such as
// "text-emerald-600". Anything unparsable falls back to blue.
func ThemeFor(statsColorClass string) Theme {
	color := defaultColor
	if parts := strings.Split(statsColorClass, "-"); len(parts) >= 2 && parts[1] != "" {
		color = parts[1]
	}
	return Theme{
		Color:    color,
		Gradient: fmt.Sprintf("bg-gradient-to-br from-%s-500 to-%s-600", color, color),
		Badge:    fmt.Sprintf("bg-%s-100 text-%s-700", color, color),
	}
}

var highlightGradients = [...]string{
	"from-blue-500 to-purple-500",
	"from-purple-500 to-pink-500",
	"from-pink-500 to-orange-500",
}

// HighlightGradient cycles the highlight card colors.
func HighlightGradient(i int) string {
	if i < 0 {
		i = -i
	}
	return highlightGradients[i%len(highlightGradients)]
}
