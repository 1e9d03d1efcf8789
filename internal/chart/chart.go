// Package chart draws category summaries as standalone SVG documents: a pie
// for proportions and a bar chart for comparison.
package chart

import (
	"errors"
	"fmt"
	"html"
	"math"
	"strings"
)

const (
	Title       = "Spending by Category"
	LegendTitle = "Categories"
	XLabel      = "Category"
	YLabel      = "Total Amount"

	// StartAngle is the angle, in degrees counter-clockwise from three
	// o'clock, at which the first slice begins.
	StartAngle = 140.0
	// LabelRotation is the counter-clockwise tilt of bar chart category labels.
	LabelRotation = 45.0
)

// ErrNoData is returned for a summary without categories.
var ErrNoData = errors.New("no data available for the selected period")

// palette follows the common ten-colour categorical scheme; it repeats past
// ten categories.
var palette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// Color returns the fill used for the i-th category.
func Color(i int) string {
	return palette[i%len(palette)]
}

type svg struct {
	strings.Builder
}

func newSVG(w, h int) *svg {
	s := &svg{}
	fmt.Fprintf(s, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d" font-family="sans-serif" role="img">`, w, h, w, h)
	s.WriteString("\n")
	return s
}

func (s *svg) text(x, y float64, size int, anchor, extra, body string) {
	fmt.Fprintf(s, `<text x="%.2f" y="%.2f" font-size="%d" text-anchor="%s"%s>%s</text>`+"\n",
		x, y, size, anchor, extra, escape(body))
}

func (s *svg) bytes() []byte {
	s.WriteString("</svg>\n")
	return []byte(s.String())
}

func escape(s string) string {
	return html.EscapeString(s)
}

func label(name string) string {
	if name == "" {
		return "(blank)"
	}
	return name
}

// polar converts an angle in degrees, counter-clockwise from three o'clock,
// to SVG coordinates where y grows downwards.
func polar(cx, cy, r, deg float64) (float64, float64) {
	rad := deg * math.Pi / 180
	return cx + r*math.Cos(rad), cy - r*math.Sin(rad)
}
