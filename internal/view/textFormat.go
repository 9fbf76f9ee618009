package view

import (
	"strings"
)

const ellipsis = "..."

// TruncateTextToWidth Cuts off the front of each line and adds an ellipsis when it is wider than width.
// Shorter lines are padded with spaces. Width is counted in runes.
func TruncateTextToWidth(width int, out string) string {
	return mapLines(out, func(line []rune) string {
		if len(line) <= width {
			return pad(line, width)
		}
		if width > len(ellipsis) {
			return ellipsis + string(line[len(line)-width+len(ellipsis):])
		}
		return string(line[len(line)-width:])
	})
}

// TrimTextToWidth Cuts off the end of each line wider than width and pads the rest.
func TrimTextToWidth(width int, out string) string {
	return mapLines(out, func(line []rune) string {
		if len(line) <= width {
			return pad(line, width)
		}
		return string(line[:width])
	})
}

func mapLines(out string, fn func(line []rune) string) string {
	lines := strings.Split(out, "\n")
	for i, line := range lines {
		lines[i] = fn([]rune(line))
	}
	return strings.Join(lines, "\n")
}

func pad(line []rune, width int) string {
	return string(line) + strings.Repeat(" ", max(width-len(line), 0))
}
