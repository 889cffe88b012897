package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the startup banner.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{`                 _       _               _    `, "#818cf8"},
		{`  ___ _ __   ___ | |_ ___| |__   ___  ___| | __`, "#a78bfa"},
		{` / __| '_ \ / _ \| __/ __| '_ \ / _ \/ __| |/ /`, "#c084fc"},
		{` \__ \ |_) | (_) | || (__| | | |  __/ (__|   < `, "#e879f9"},
		{` |___/ .__/ \___/ \__\___|_| |_|\___|\___|_|\_\`, "#f472b6"},
		{`     |_|                                       `, "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w)
}
