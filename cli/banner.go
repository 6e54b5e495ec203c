// Package cli has the terminal helpers used by the actordemo console: boxed banners
// and promptui-based prompts.
package cli

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/amp-labs/chanactor/envutil"
	"github.com/amp-labs/chanactor/lazy"
)

const (
	boxTopLeft     = "╒"
	boxBottomLeft  = "└"
	boxTopRight    = "╕"
	boxBottomRight = "┘"
	boxSide        = "│"
	boxTop         = "═"
	boxBottom      = "─"
	ellipsis       = "…"
)

// Alignment positions banner text inside the box.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

const (
	bannerPadding = 2
	halfDivisor   = 2

	// DefaultTerminalWidth is used when COLUMNS is unset or invalid.
	DefaultTerminalWidth = 80
)

var suppressBanner = lazy.New[bool](func() bool { //nolint:gochecknoglobals
	return envutil.Bool("ACTORDEMO_NO_BANNER",
		envutil.Default(false)).
		ValueOrElse(false)
})

// TerminalWidth reads COLUMNS, falling back to DefaultTerminalWidth.
func TerminalWidth() int {
	width := envutil.Int("COLUMNS", envutil.Default(DefaultTerminalWidth)).ValueOrElse(DefaultTerminalWidth)
	if width <= bannerPadding {
		return DefaultTerminalWidth
	}

	return width
}

// BannerAutoWidth is Banner sized to the terminal.
func BannerAutoWidth(s string, a Alignment) string {
	return Banner(s, TerminalWidth(), a)
}

// Banner draws s (one box row per line) in a box width characters wide. Lines that do
// not fit are truncated with an ellipsis. With ACTORDEMO_NO_BANNER set, s is returned
// as a plain line.
func Banner(s string, width int, alignment Alignment) string {
	if suppressBanner.Get() {
		return s + "\n"
	}

	if width <= bannerPadding || s == "" {
		return ""
	}

	inner := width - bannerPadding
	parts := []string{boxTopLeft + strings.Repeat(boxTop, inner) + boxTopRight}

	for _, l := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		line, ok := pad(l, inner, alignment)
		if !ok {
			return ""
		}

		parts = append(parts, boxSide+line+boxSide)
	}

	parts = append(parts, boxBottomLeft+strings.Repeat(boxBottom, inner)+boxBottomRight)

	return strings.Join(parts, "\n") + "\n"
}

func pad(text string, width int, alignment Alignment) (string, bool) {
	length := countGraphic(text)
	if length > width {
		text = truncateGraphic(text, width-1) + ellipsis
		length = width
	}

	diff := width - length

	switch alignment {
	case AlignLeft:
		return text + strings.Repeat(" ", diff), true
	case AlignRight:
		return strings.Repeat(" ", diff) + text, true
	case AlignCenter:
		left := diff / halfDivisor

		return fmt.Sprintf("%s%s%s", strings.Repeat(" ", left), text, strings.Repeat(" ", diff-left)), true
	default:
		return "", false
	}
}

func countGraphic(s string) int {
	count := 0

	for _, r := range s {
		if unicode.IsGraphic(r) {
			count++
		}
	}

	return count
}

// truncateGraphic keeps the first n graphic runes of s.
func truncateGraphic(s string, n int) string {
	var out strings.Builder

	count := 0

	for _, r := range s {
		if unicode.IsGraphic(r) {
			if count == n {
				break
			}

			count++
		}

		out.WriteRune(r)
	}

	return out.String()
}
