// Package style holds the terminal styles used by ws output.
package style

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/boshu2/workstreams/cli/internal/workstream"
)

// Palette
var (
	ColorGreen  = lipgloss.Color("#98C379")
	ColorYellow = lipgloss.Color("#E5C07B")
	ColorRed    = lipgloss.Color("#E06C75")
	ColorBlue   = lipgloss.Color("#61AFEF")
	ColorMuted  = lipgloss.Color("#636B78")
	ColorAccent = lipgloss.Color("#C678DD")
)

// Enabled decides whether to emit color for mode ("auto", "always",
// "never"). Auto colors only terminals, and never when TERM is dumb.
func Enabled(mode string, out io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Styles renders text for one output stream.
type Styles struct {
	renderer *lipgloss.Renderer

	Title   lipgloss.Style
	Heading lipgloss.Style
	Muted   lipgloss.Style
	OK      lipgloss.Style
	Warn    lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
}

// New builds styles bound to w. With color disabled every style renders
// plain text.
func New(w io.Writer, color bool) *Styles {
	r := lipgloss.NewRenderer(w)
	switch {
	case !color:
		r.SetColorProfile(termenv.Ascii)
	case r.ColorProfile() == termenv.Ascii:
		// Forced color on a non-terminal.
		r.SetColorProfile(termenv.ANSI256)
	}

	return &Styles{
		renderer: r,
		Title:    r.NewStyle().Foreground(ColorAccent).Bold(true),
		Heading:  r.NewStyle().Foreground(ColorBlue).Bold(true),
		Muted:    r.NewStyle().Foreground(ColorMuted),
		OK:       r.NewStyle().Foreground(ColorGreen),
		Warn:     r.NewStyle().Foreground(ColorYellow),
		Error:    r.NewStyle().Foreground(ColorRed).Bold(true),
		Info:     r.NewStyle().Foreground(ColorBlue),
	}
}

// Plain returns styles that never emit escape codes.
func Plain() *Styles {
	return New(io.Discard, false)
}

// Status colors a status value.
func (s *Styles) Status(st workstream.Status) string {
	switch st {
	case workstream.StatusComplete:
		return s.OK.Render(string(st))
	case workstream.StatusInProgress:
		return s.Warn.Render(string(st))
	default:
		return s.Muted.Render(string(st))
	}
}

// Approval colors an approval status using its display label.
func (s *Styles) Approval(status workstream.ApprovalStatus) string {
	label := workstream.FormatApprovalIcon(string(status))
	switch status {
	case workstream.ApprovalApproved:
		return s.OK.Render(label)
	case workstream.ApprovalRevoked:
		return s.Error.Render(label)
	default:
		return s.Warn.Render(label)
	}
}

// Severity renders a diagnostic severity as ERROR:, WARN: or INFO:.
func (s *Styles) Severity(sev workstream.Severity) string {
	switch sev {
	case workstream.SeverityError:
		return s.Error.Render("ERROR:")
	case workstream.SeverityWarning:
		return s.Warn.Render("WARN:")
	default:
		return s.Info.Render("INFO:")
	}
}

// Swatch renders a block in a label's hex color ("7057ff" or "#7057ff").
func (s *Styles) Swatch(hex string) string {
	hex = "#" + strings.TrimPrefix(hex, "#")
	p := s.renderer.ColorProfile()
	if p == termenv.Ascii {
		return "■"
	}
	return p.String("■").Foreground(p.Color(hex)).String()
}

// Progress draws a fixed-width bar such as "[####------] 40%".
func (s *Styles) Progress(pct, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := pct * width / 100
	bar := s.OK.Render(strings.Repeat("#", filled)) + s.Muted.Render(strings.Repeat("-", width-filled))
	return "[" + bar + "] " + strconv.Itoa(pct) + "%"
}

