// Command hilbertsvg renders a Hilbert curve of a given order as an SVG
// polyline. It is an illustration aid for the leaf ordering the index build
// produces; it computes the curve on its own and does not read the library.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

func main() {
	order := flag.Int("order", 5, "curve order (grid is 2^order on a side, 1..8)")
	size := flag.Int("size", 512, "output image side length in pixels")
	out := flag.String("o", "hilbert.svg", "output file")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *order < 1 || *order > 8 {
		log.Error("order out of range", "order", *order)
		os.Exit(1)
	}

	svg := render(*order, *size)
	if err := os.WriteFile(*out, []byte(svg), 0o644); err != nil {
		log.Error("write failed", "path", *out, "error", err)
		os.Exit(1)
	}
	log.Debug("curve written", "path", *out, "order", *order, "cells", 1<<(2*uint(*order)))
	fmt.Printf("wrote %s\n", *out)
}

// render walks every curve position in order, converts it back to grid
// coordinates, and joins the cell centers into one polyline.
func render(order, size int) string {
	side := 1 << uint(order)
	cells := side * side
	scale := float64(size) / float64(side)

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n", size, size, size, size)
	b.WriteString(`<polyline fill="none" stroke="#1a6fb0" stroke-width="1" points="`)
	for d := 0; d < cells; d++ {
		x, y := indexToXY(order, d)
		px := (float64(x) + 0.5) * scale
		py := (float64(y) + 0.5) * scale
		fmt.Fprintf(&b, "%.1f,%.1f ", px, py)
	}
	b.WriteString("\"/>\n</svg>\n")
	return b.String()
}

// indexToXY converts a curve position to grid coordinates using the classic
// quadrant rotate-and-flip recurrence.
func indexToXY(order, d int) (int, int) {
	x, y := 0, 0
	t := d
	for s := 1; s < 1<<uint(order); s *= 2 {
		rx := 1 & (t / 2)
		ry := 1 & (t ^ rx)
		if ry == 0 {
			if rx == 1 {
				x = s - 1 - x
				y = s - 1 - y
			}
			x, y = y, x
		}
		x += s * rx
		y += s * ry
		t /= 4
	}
	return x, y
}
