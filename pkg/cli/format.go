// Package cli provides shared formatting helpers for the afcctl CLI.
package cli

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// colorEnabled is false when NO_COLOR is set (per no-color.org) or stdout
// is not a terminal.
var colorEnabled = os.Getenv("NO_COLOR") == "" && term.IsTerminal(int(os.Stdout.Fd()))

// SetColor forces color on or off.
func SetColor(enabled bool) {
	colorEnabled = enabled
}

func wrap(code, s string) string {
	if !colorEnabled {
		return s
	}
	return "\033[" + code + "m" + s + "\033[0m"
}

// Green wraps s in ANSI green.
func Green(s string) string { return wrap("32", s) }

// Yellow wraps s in ANSI yellow.
func Yellow(s string) string { return wrap("33", s) }

// Red wraps s in ANSI red.
func Red(s string) string { return wrap("31", s) }

// Bold wraps s in ANSI bold.
func Bold(s string) string { return wrap("1", s) }

// Dim wraps s in ANSI dim.
func Dim(s string) string { return wrap("2", s) }

// Status renders the result word of an invocation: "changed", "ok" or
// "failed".
func Status(success, changed bool) string {
	switch {
	case !success:
		return Red("failed")
	case changed:
		return Yellow("changed")
	default:
		return Green("ok")
	}
}

// YesNo renders a boolean column.
func YesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// DotPad pads name with dots to the given width.
// Example: DotPad("vrf create", 20) → "vrf create ........."
func DotPad(name string, width int) string {
	if width <= 0 || len(name) >= width-1 {
		return name
	}
	return name + " " + strings.Repeat(".", width-len(name)-1)
}
