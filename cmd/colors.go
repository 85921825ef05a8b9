package cmd

import (
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

var (
	colorInfo    = color.New(color.FgCyan)
	colorSuccess = color.New(color.FgGreen)
	colorWarning = color.New(color.FgYellow)
	colorError   = color.New(color.FgRed)
	colorPrompt  = color.New(color.FgBlue, color.Bold)
)

// initColors disables color output when stdout is not a terminal
func initColors() {
	color.NoColor = !isatty.IsTerminal(os.Stdout.Fd())
}
