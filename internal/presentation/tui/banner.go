package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []string{
	"                  _ _",
	"  ___ _   _ _ __| (_) __ _ _ __   ___",
	" / __| | | | '__| | |/ _` | '_ \\ / _ \\",
	" \\__ \\ |_| | |  | | | (_| | | | |  __/",
	" |___/\\__,_|_|  |_|_|\\__, |_| |_|\\___|",
	"                     |___/",
}

// One color per default zone, top to bottom.
var bannerColors = []string{"#2aa6ff", "#2bd58a", "#9b7bff", "#7fb3ff", "#16a085", "#e67e22"}

// PrintBanner writes the Surligne banner to w, colored for the given profile.
func PrintBanner(w io.Writer, p termenv.Profile) {
	fmt.Fprintln(w)
	for i, line := range bannerLines {
		fmt.Fprintln(w, p.String(line).Foreground(p.Color(bannerColors[i%len(bannerColors)])))
	}
	fmt.Fprintln(w)
}
