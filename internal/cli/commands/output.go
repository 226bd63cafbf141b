package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/term"

	"github.com/leapstack-labs/leapjs/internal/compiler"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	headerStyle  = lipgloss.NewStyle().Bold(true)
)

// Renderer writes command output, styled when stdout is a terminal.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	styled bool
}

// NewRenderer creates a renderer. Styling is enabled only when out is a
// terminal.
func NewRenderer(out, errOut io.Writer) *Renderer {
	styled := false
	if f, ok := out.(*os.File); ok {
		styled = term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
	}
	return &Renderer{out: out, errOut: errOut, styled: styled}
}

func (r *Renderer) style(s lipgloss.Style, text string) string {
	if !r.styled {
		return text
	}
	return s.Render(text)
}

// Println writes a line to stdout.
func (r *Renderer) Println(s string) {
	_, _ = fmt.Fprintln(r.out, s)
}

// Header writes a section header.
func (r *Renderer) Header(text string) {
	r.Println(r.style(headerStyle, text))
}

// Success writes a success message.
func (r *Renderer) Success(msg string) {
	r.Println(r.style(successStyle, "✓ "+msg))
}

// StatusLine writes one created or skipped item.
func (r *Renderer) StatusLine(name, detail string) {
	line := "  " + r.style(successStyle, "✓") + " " + name
	if detail != "" {
		line += " " + r.style(mutedStyle, detail)
	}
	r.Println(line)
}

// AssetTable renders emitted files as a table.
func (r *Renderer) AssetTable(assets []compiler.AssetInfo) {
	if len(assets) == 0 {
		r.Println("(no assets)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Kind", "Name", "File", "Size"})

	var total uint64
	for _, a := range assets {
		size := uint64(max(a.Size, 0)) //nolint:gosec // clamped to non-negative
		total += size
		t.AppendRow(table.Row{a.Kind, a.Name, a.Hashname, humanize.Bytes(size)})
	}
	t.AppendFooter(table.Row{"", "", "Total", humanize.Bytes(total)})

	t.Render()
}
