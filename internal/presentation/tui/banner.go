package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the mbt banner followed by a version line.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	// Using a subtle gradient-like color scheme (Indigo/Violet)
	lines := []termenv.Style{
		termenv.String("            _     _   ").Foreground(p.Color("#818cf8")),
		termenv.String("  _ __ ___ | |__ | |_ ").Foreground(p.Color("#a78bfa")),
		termenv.String(" | '_ ` _ \\| '_ \\| __|").Foreground(p.Color("#c084fc")),
		termenv.String(" | | | | | | |_) | |_ ").Foreground(p.Color("#e879f9")),
		termenv.String(" |_| |_| |_|_.__/ \\__|").Foreground(p.Color("#f472b6")),
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
	fmt.Fprintln(w, termenv.String(" model-based testing "+version).Faint())
	fmt.Fprintln(w)
}
