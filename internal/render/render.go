// Package render writes calendar and timeline view models to a terminal:
// styled text, aligned tables or JSON.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Output formats.
const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatTable = "table"
)

const (
	defaultWidth      = 80
	defaultLabelWidth = 24
	defaultCardLines  = 2
)

// ParseFormat validates a --format value; empty means text.
func ParseFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatTable:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, json or table)", s)
	}
}

// Options controls text output.
type Options struct {
	// Width is the terminal width in columns; 0 means 80.
	Width int
	// LabelWidth is the timeline label column width; 0 means 24.
	LabelWidth int
	// CardLines is how many lines each calendar cell gets below its day
	// number; 0 means 2.
	CardLines int
	// Color enables ANSI styling.
	Color bool
}

func (o Options) width() int {
	if o.Width <= 0 {
		return defaultWidth
	}
	return o.Width
}

func (o Options) labelWidth() int {
	if o.LabelWidth <= 0 {
		return defaultLabelWidth
	}
	return o.LabelWidth
}

func (o Options) cardLines() int {
	if o.CardLines <= 0 {
		return defaultCardLines
	}
	return o.CardLines
}

// ColorEnabled resolves a color mode (auto, always, never) for f. Auto
// honors NO_COLOR and otherwise colors only terminals.
func ColorEnabled(mode string, f *os.File) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" || f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// TerminalWidth returns the column count of f, or fallback when f is not a
// terminal.
func TerminalWidth(f *os.File, fallback int) int {
	if f == nil {
		return fallback
	}
	if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
		return w
	}
	return fallback
}

// JSON writes v indented.
func JSON(w io.Writer, v any) error {
	data, err := sonic.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

type paint func(string) string

func plain(s string) string { return s }

func styled(st lipgloss.Style) paint {
	return func(s string) string { return st.Render(s) }
}

// palette is the set of styles a renderer applies; every entry is the
// identity when color is off.
type palette struct {
	title    paint
	sunday   paint
	saturday paint
	today    paint
	muted    paint
	bar      paint
}

func newPalette(color bool) palette {
	if !color {
		return palette{plain, plain, plain, plain, plain, plain}
	}
	// Styling was asked for explicitly, so do not let lipgloss downgrade to
	// plain text when stdout is not a terminal.
	lipgloss.SetColorProfile(termenv.ANSI256)
	return palette{
		title:    styled(lipgloss.NewStyle().Bold(true)),
		sunday:   styled(lipgloss.NewStyle().Foreground(lipgloss.Color("1"))),
		saturday: styled(lipgloss.NewStyle().Foreground(lipgloss.Color("4"))),
		today:    styled(lipgloss.NewStyle().Bold(true).Reverse(true)),
		muted:    styled(lipgloss.NewStyle().Faint(true)),
		bar:      styled(lipgloss.NewStyle().Foreground(lipgloss.Color("6"))),
	}
}

// weekday returns the column style: Sunday red, Saturday blue.
func (p palette) weekday(col int) paint {
	switch col {
	case 0:
		return p.sunday
	case 6:
		return p.saturday
	default:
		return plain
	}
}

// fit truncates s to w display columns and pads it on the right.
func fit(s string, w int) string {
	if w <= 0 {
		return ""
	}
	return runewidth.FillRight(runewidth.Truncate(s, w, "…"), w)
}

// fitRight is fit aligned to the right edge.
func fitRight(s string, w int) string {
	if w <= 0 {
		return ""
	}
	return runewidth.FillLeft(runewidth.Truncate(s, w, "…"), w)
}

func center(s string, w int) string {
	sw := runewidth.StringWidth(s)
	if sw >= w {
		return runewidth.Truncate(s, w, "…")
	}
	return strings.Repeat(" ", (w-sw)/2) + s
}

func writeLine(b *strings.Builder, cells []string, sep string) {
	b.WriteString(strings.TrimRight(strings.Join(cells, sep), " "))
	b.WriteByte('\n')
}
