package color

import (
	"github.com/fatih/color"
)

var (
	FgRed     = color.New(color.FgRed).SprintFunc()
	FgGreen   = color.New(color.FgGreen).SprintFunc()
	FgYellow  = color.New(color.FgYellow).SprintFunc()
	FgMagenta = color.New(color.FgMagenta).SprintFunc()
	FgCyan    = color.New(color.FgCyan).SprintFunc()
)

// SetEnabled overrides the terminal detection done by fatih/color.
func SetEnabled(enabled bool) {
	color.NoColor = !enabled
}
