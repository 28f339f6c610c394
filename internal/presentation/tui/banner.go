package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the cbh banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"   ____ ____  _   _ ", "#818cf8"},
		{"  / ___| __ )| | | |", "#a78bfa"},
		{" | |   |  _ \\| |_| |", "#c084fc"},
		{" | |___| |_) |  _  |", "#e879f9"},
		{"  \\____|____/|_| |_|", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  constraint by humanoid "+version).Faint())
	fmt.Fprintln(w)
}
