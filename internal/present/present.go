// Package present renders summaries for the terminal.
package present

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/shopspring/decimal"

	"expense-tracker/internal/core"
)

// NoDataMessage is shown instead of a summary when nothing matched.
const NoDataMessage = "No data available for the selected period."

// Presenter writes summaries to out. Style is a glamour standard style
// name ("auto", "dark", "light", "notty"); BarWidth is the longest bar in
// cells.
type Presenter struct {
	Out      io.Writer
	Currency string
	Style    string
	BarWidth int
	NoColor  bool
}

func New(out io.Writer, currency string) *Presenter {
	return &Presenter{Out: out, Currency: currency, Style: "auto", BarWidth: 40}
}

// Heading is the summary title.
func Heading(s core.Summary) string {
	if s.Period != nil {
		return "Monthly Summary for " + s.Period.String()
	}
	return "Overall Spending Summary"
}

// Markdown renders the summary as a markdown table.
func Markdown(s core.Summary, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", Heading(s))
	b.WriteString("| Category | Amount | Share |\n")
	b.WriteString("|:---|---:|---:|\n")
	for i, c := range s.ByCategory {
		fmt.Fprintf(&b, "| %s | %s | %s%% |\n",
			escapeCell(c.Name), core.FormatAmount(c.Amount, currency), s.Share(i).StringFixed(1))
	}
	fmt.Fprintf(&b, "| **Total** | **%s** | 100.0%% |\n", core.FormatAmount(s.Total, currency))
	return b.String()
}

func escapeCell(s string) string {
	if s == "" {
		return "(blank)"
	}
	return strings.ReplaceAll(s, "|", `\|`)
}

// Text prints the summary table. If the markdown cannot be rendered for
// the terminal it is printed as is.
func (p *Presenter) Text(s core.Summary) error {
	if s.Empty() {
		return p.NoData()
	}
	md := Markdown(s, p.Currency)
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(p.style()),
		glamour.WithWordWrap(100),
	)
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			_, err = io.WriteString(p.Out, out)
			return err
		}
	}
	_, err = io.WriteString(p.Out, md)
	return err
}

func (p *Presenter) style() string {
	if p.NoColor {
		return "notty"
	}
	if p.Style == "" {
		return "auto"
	}
	return p.Style
}

// NoData prints the empty-period notice.
func (p *Presenter) NoData() error {
	_, err := p.color(color.FgYellow).Fprintln(p.Out, NoDataMessage)
	return err
}

// Bars prints one horizontal bar per category in summary order, scaled to
// the largest total. Emphasized categories are drawn in a second colour.
func (p *Presenter) Bars(s core.Summary) error {
	if s.Empty() {
		return p.NoData()
	}
	width := p.BarWidth
	if width <= 0 {
		width = 40
	}
	nameWidth := 0
	for _, c := range s.ByCategory {
		nameWidth = max(nameWidth, utf8.RuneCountInString(c.Name))
	}
	maxAmount := s.ByCategory[0].Amount
	for _, c := range s.ByCategory {
		if c.Amount.GreaterThan(maxAmount) {
			maxAmount = c.Amount
		}
	}

	normal := p.color(color.FgCyan)
	small := p.color(color.FgYellow)
	for i, c := range s.ByCategory {
		cells := barCells(c.Amount, maxAmount, width)
		bar := normal
		if s.Emphasized(i) {
			bar = small
		}
		pad := strings.Repeat(" ", nameWidth-utf8.RuneCountInString(c.Name))
		if _, err := fmt.Fprintf(p.Out, "%s%s  ", c.Name, pad); err != nil {
			return err
		}
		bar.Fprint(p.Out, strings.Repeat("█", cells))
		if _, err := fmt.Fprintf(p.Out, " %s\n", core.FormatAmount(c.Amount, p.Currency)); err != nil {
			return err
		}
	}
	return nil
}

// barCells scales amount to at most width cells; any positive amount gets
// at least one cell.
func barCells(amount, maxAmount decimal.Decimal, width int) int {
	if !maxAmount.IsPositive() || !amount.IsPositive() {
		return 0
	}
	n := int(amount.Mul(decimal.NewFromInt(int64(width))).Div(maxAmount).Round(0).IntPart())
	return min(max(n, 1), width)
}

func (p *Presenter) color(attr color.Attribute) *color.Color {
	c := color.New(attr)
	if p.NoColor {
		c.DisableColor()
	}
	return c
}
