package chart

import (
	"fmt"
	"math"
	"unicode/utf8"

	"expense-tracker/internal/core"
)

const (
	barWidth     = 640
	barHeight    = 480
	marginLeft   = 90.0
	marginRight  = 30.0
	marginTop    = 60.0
	marginBottom = 130.0
	yTicks       = 5
)

// Bar renders one bar per category in summary order with axis labels and
// tilted category names.
func Bar(s core.Summary) ([]byte, error) {
	if s.Empty() {
		return nil, ErrNoData
	}
	plotW := barWidth - marginLeft - marginRight
	plotH := barHeight - marginTop - marginBottom
	baseY := marginTop + plotH

	maxVal := 0.0
	for _, c := range s.ByCategory {
		maxVal = math.Max(maxVal, c.Amount.InexactFloat64())
	}
	step := niceStep(maxVal / yTicks)
	top := step * yTicks
	if top <= 0 {
		top, step = 1, 0.2
	}

	doc := newSVG(barWidth, barHeight)
	doc.text(barWidth/2, 32, 20, "middle", ` font-weight="bold"`, Title)

	for i := 0; i <= yTicks; i++ {
		v := step * float64(i)
		y := baseY - v/top*plotH
		fmt.Fprintf(doc, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="#ddd"/>`+"\n", marginLeft, y, marginLeft+plotW, y)
		doc.text(marginLeft-8, y+4, 11, "end", "", formatTick(v))
	}
	fmt.Fprintf(doc, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="#333"/>`+"\n", marginLeft, marginTop, marginLeft, baseY)
	fmt.Fprintf(doc, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="#333"/>`+"\n", marginLeft, baseY, marginLeft+plotW, baseY)

	slot := plotW / float64(len(s.ByCategory))
	bw := slot * 0.7
	for i, c := range s.ByCategory {
		v := c.Amount.InexactFloat64()
		h := math.Max(v, 0) / top * plotH
		x := marginLeft + slot*float64(i) + (slot-bw)/2
		name := label(c.Name)
		fmt.Fprintf(doc, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"><title>%s</title></rect>`+"\n",
			x, baseY-h, bw, h, Color(i), escape(name))

		lx := x + bw/2
		ly := baseY + 14
		doc.text(lx, ly, 11, "end", fmt.Sprintf(` transform="rotate(%.0f %.2f %.2f)"`, -LabelRotation, lx, ly), truncate(name, 18))
	}

	doc.text(marginLeft+plotW/2, barHeight-12, 13, "middle", "", XLabel)
	ylx, yly := 22.0, marginTop+plotH/2
	doc.text(ylx, yly, 13, "middle", fmt.Sprintf(` transform="rotate(-90 %.2f %.2f)"`, ylx, yly), YLabel)
	return doc.bytes(), nil
}

// niceStep rounds a raw tick interval up to 1, 2, 2.5 or 5 times a power of ten.
func niceStep(raw float64) float64 {
	if raw <= 0 {
		return 0
	}
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	for _, m := range []float64{1, 2, 2.5, 5, 10} {
		if raw <= m*mag {
			return m * mag
		}
	}
	return 10 * mag
}

func formatTick(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
