package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the formwork ASCII art banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	if !IsTerminal(w) {
		p = termenv.Ascii
	}
	// Teal to blue gradient
	lines := []struct{ text, color string }{
		{"   __                                      _    ", "#2dd4bf"},
		{"  / _| ___  _ __ _ __ _____      _____  _ __| | __", "#22d3ee"},
		{" | |_ / _ \\| '__| '_ ` _ \\ \\ /\\ / / _ \\| '__| |/ /", "#38bdf8"},
		{" |  _| (_) | |  | | | | | \\ V  V / (_) | |  |   < ", "#60a5fa"},
		{" |_|  \\___/|_|  |_| |_| |_|\\_/\\_/ \\___/|_|  |_|\\_\\", "#818cf8"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, p.String("  v"+version).Faint())
	fmt.Fprintln(w)
}
