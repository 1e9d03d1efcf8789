package chart

import (
	"fmt"
	"math"

	"expense-tracker/internal/core"
)

const (
	pieWidth  = 640
	pieHeight = 440
	pieCX     = 230.0
	pieCY     = 240.0
	pieRadius = 160.0
)

// ZeroTotalLabel marks a pie whose categories have no positive amount.
const ZeroTotalLabel = "Total is zero"

// Slice is the geometry of one pie wedge.
type Slice struct {
	Name       string
	Share      float64 // percent of the total
	Start, End float64 // degrees, counter-clockwise
	Offset     float64 // radial displacement of the wedge, in pixels
	Color      string
}

// Slices lays out the wedges of s starting at StartAngle and going
// counter-clockwise. Emphasized categories are pushed out by
// core.ExplodeOffset of the radius. Categories whose total is not positive
// get an empty wedge.
func Slices(s core.Summary, radius float64) []Slice {
	total := positiveTotal(s)
	out := make([]Slice, len(s.ByCategory))
	angle := StartAngle
	for i, c := range s.ByCategory {
		frac := 0.0
		if total > 0 {
			frac = math.Max(c.Amount.InexactFloat64(), 0) / total
		}
		sl := Slice{
			Name:  label(c.Name),
			Share: frac * 100,
			Start: angle,
			End:   angle + frac*360,
			Color: Color(i),
		}
		if s.Emphasized(i) {
			sl.Offset = core.ExplodeOffset * radius
		}
		angle = sl.End
		out[i] = sl
	}
	return out
}

func positiveTotal(s core.Summary) float64 {
	total := 0.0
	for _, c := range s.ByCategory {
		total += math.Max(c.Amount.InexactFloat64(), 0)
	}
	return total
}

// Pie renders the proportional chart with percentage labels, a legend and
// the title. A summary whose categories add up to nothing positive is drawn
// as a blank disc labelled ZeroTotalLabel.
func Pie(s core.Summary) ([]byte, error) {
	if s.Empty() {
		return nil, ErrNoData
	}
	doc := newSVG(pieWidth, pieHeight)
	doc.text(pieWidth/2, 32, 20, "middle", ` font-weight="bold"`, Title)

	slices := Slices(s, pieRadius)
	if positiveTotal(s) <= 0 {
		fmt.Fprintf(doc, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="#eee" stroke="#999"/>`+"\n", pieCX, pieCY, pieRadius)
		doc.text(pieCX, pieCY+4, 14, "middle", ` fill="#555"`, ZeroTotalLabel)
	}
	for _, sl := range slices {
		if sl.End == sl.Start {
			continue
		}
		mid := (sl.Start + sl.End) / 2
		cx, cy := polar(pieCX, pieCY, sl.Offset, mid)

		if sl.End-sl.Start >= 359.999 {
			fmt.Fprintf(doc, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s" stroke="#fff"/>`+"\n", cx, cy, pieRadius, sl.Color)
		} else {
			x1, y1 := polar(cx, cy, pieRadius, sl.Start)
			x2, y2 := polar(cx, cy, pieRadius, sl.End)
			large := 0
			if sl.End-sl.Start > 180 {
				large = 1
			}
			fmt.Fprintf(doc, `<path d="M %.2f %.2f L %.2f %.2f A %.2f %.2f 0 %d 0 %.2f %.2f Z" fill="%s" stroke="#fff" stroke-width="1"><title>%s</title></path>`+"\n",
				cx, cy, x1, y1, pieRadius, pieRadius, large, x2, y2, sl.Color, escape(sl.Name))
		}

		lx, ly := polar(cx, cy, pieRadius*0.6, mid)
		doc.text(lx, ly+4, 12, "middle", ` fill="#fff"`, fmt.Sprintf("%.1f%%", sl.Share))
	}

	legendX := 430.0
	legendY := 80.0
	fmt.Fprintf(doc, `<g class="legend">`+"\n")
	doc.text(legendX, legendY, 14, "start", ` font-weight="bold"`, LegendTitle)
	for i, sl := range slices {
		y := legendY + 22*float64(i+1)
		fmt.Fprintf(doc, `<rect x="%.2f" y="%.2f" width="12" height="12" fill="%s"/>`+"\n", legendX, y-11, sl.Color)
		doc.text(legendX+18, y, 12, "start", "", sl.Name)
	}
	doc.WriteString("</g>\n")
	return doc.bytes(), nil
}
