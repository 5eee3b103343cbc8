package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the mathpad banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"                 _   _                     _ ", "#818cf8"},
		{"  _ __ ___   __ _| |_| |__  _ __   __ _  __| |", "#a78bfa"},
		{" | '_ ` _ \\ / _` | __| '_ \\| '_ \\ / _` |/ _` |", "#c084fc"},
		{" | | | | | | (_| | |_| | | | |_) | (_| | (_| |", "#e879f9"},
		{" |_| |_| |_|\\__,_|\\__|_| |_| .__/ \\__,_|\\__,_|", "#f472b6"},
		{"                            |_|               ", "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	if v := strings.TrimSpace(version); v != "" {
		fmt.Fprintln(w, termenv.String("  v"+v).Faint())
	}
	fmt.Fprintln(w)
}
