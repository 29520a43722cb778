package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/progress"
)

const barWidth = 40

// progressBar redraws a gradient bar on w whenever the percentage changes.
func progressBar(w io.Writer) func(pct int) {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth))
	last := -1
	return func(pct int) {
		if pct == last {
			return
		}
		last = pct
		fmt.Fprintf(w, "\r%s", bar.ViewAs(float64(pct)/100))
	}
}
