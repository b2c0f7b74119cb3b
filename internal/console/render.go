package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"

	"ensaio/pkg/contracts/domain"
)

const (
	defaultWidth = 80
	chartHeight  = 10
)

// Renderer writes styled output to one writer
type Renderer struct {
	w     io.Writer
	width int

	title   lipgloss.Style
	header  lipgloss.Style
	cell    lipgloss.Style
	border  lipgloss.Style
	warning lipgloss.Style
	errText lipgloss.Style
	muted   lipgloss.Style
}

// NewRenderer styles output for w. The width follows the terminal when w is
// one, otherwise 80 columns.
func NewRenderer(w io.Writer) *Renderer {
	r := lipgloss.NewRenderer(w)
	return &Renderer{
		w:       w,
		width:   terminalWidth(w),
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF4B4B")),
		header:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#C0C0C0")).Padding(0, 1),
		cell:    r.NewStyle().Padding(0, 1).Align(lipgloss.Right),
		border:  r.NewStyle().Foreground(lipgloss.Color("#4A4A4A")),
		warning: r.NewStyle().Foreground(lipgloss.Color("#C89A3A")),
		errText: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF4D4F")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("#8C8C8C")),
	}
}

// WithWidth fixes the output width
func (r *Renderer) WithWidth(width int) *Renderer {
	if width > 0 {
		r.width = width
	}
	return r
}

// Width is the column budget used for charts
func (r *Renderer) Width() int {
	return r.width
}

// Result prints the table, its warnings and, for DP, the chart
func (r *Renderer) Result(t *domain.Table) error {
	var b strings.Builder
	b.WriteString(r.title.Render("Resultados"))
	b.WriteString("\n")
	b.WriteString(r.Table(t))
	b.WriteString("\n")
	for _, w := range t.Warnings {
		b.WriteString(r.warning.Render("! " + w))
		b.WriteString("\n")
	}
	if t.HasChart() {
		b.WriteString("\n")
		b.WriteString(r.title.Render("Gráfico DP"))
		b.WriteString("\n")
		b.WriteString(r.muted.Render(Chart(t.Points, r.width, chartHeight)))
		b.WriteString("\n")
	}
	_, err := io.WriteString(r.w, b.String())
	return err
}

// Table renders t with a rounded border, cells right aligned
func (r *Renderer) Table(t *domain.Table) string {
	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(r.border).
		Headers(t.Columns...).
		Rows(t.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return r.header
			}
			return r.cell
		})
	return tbl.Render()
}

// Error prints a failed submission's message
func (r *Renderer) Error(message string) error {
	_, err := fmt.Fprintln(r.w, r.errText.Render(message))
	return err
}

// Info prints a secondary line, e.g. where the workbook was saved
func (r *Renderer) Info(message string) error {
	_, err := fmt.Fprintln(r.w, r.muted.Render(message))
	return err
}

func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return defaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}
