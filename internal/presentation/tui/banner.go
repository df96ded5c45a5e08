package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []string{
	"   __ _                                ",
	"  / _| | _____      ___ __ ___   __ _ _ __  ",
	" | |_| |/ _ \\ \\ /\\ / / '_ ` _ \\ / _` | '_ \\ ",
	" |  _| | (_) \\ V  V /| | | | | | (_| | |_) |",
	" |_| |_|\\___/ \\_/\\_/ |_| |_| |_|\\__,_| .__/ ",
	"                                     |_|    ",
}

var bannerColors = []string{"#34d399", "#2dd4bf", "#22d3ee", "#38bdf8", "#60a5fa", "#818cf8"}

// PrintBanner writes the flowmap ASCII art banner to w.
// Colors degrade to the profile of the output (plain text when not a terminal).
func PrintBanner(w io.Writer) {
	p := termenv.NewOutput(w).Profile
	fmt.Fprintln(w)
	for i, line := range bannerLines {
		fmt.Fprintln(w, p.String(line).Foreground(p.Color(bannerColors[i])))
	}
	fmt.Fprintln(w)
}
