// Package report renders the end-of-run summary printed by the CLI.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/JonMunkholm/mobgen/internal/core"
	"github.com/charmbracelet/lipgloss"
)

// maxListed caps how many issues of one kind are printed.
const maxListed = 20

type styles struct {
	title   lipgloss.Style
	ok      lipgloss.Style
	warn    lipgloss.Style
	fail    lipgloss.Style
	detail  lipgloss.Style
	section lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:   r.NewStyle().Bold(true),
		ok:      r.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true),
		warn:    r.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true),
		fail:    r.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
		detail:  r.NewStyle().Foreground(lipgloss.Color("#A0AEC0")),
		section: r.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).PaddingLeft(1),
	}
}

// WriteSummary prints a summary of res to w. Colors are used only when w
// is a terminal.
func WriteSummary(w io.Writer, res *core.Result) error {
	st := newStyles(lipgloss.NewRenderer(w))

	var b strings.Builder
	mode := ""
	if res.DryRun {
		mode = " (dry run)"
	}
	fmt.Fprintf(&b, "%s\n", st.title.Render(fmt.Sprintf("mobgen %s%s", res.Generator, mode)))
	fmt.Fprintf(&b, "  run       %s\n", st.detail.Render(res.RunID))
	fmt.Fprintf(&b, "  output    %s\n", res.OutputDir)
	fmt.Fprintf(&b, "  rows      %d\n", res.TotalRows)
	fmt.Fprintf(&b, "  entries   %s\n", st.ok.Render(fmt.Sprint(res.Entries)))
	fmt.Fprintf(&b, "  files     %d\n", len(res.Written))
	fmt.Fprintf(&b, "  skipped   %s\n", count(st.warn, len(res.Skipped)))
	fmt.Fprintf(&b, "  warnings  %s\n", count(st.warn, len(res.Warnings)))
	fmt.Fprintf(&b, "  failed    %s\n", count(st.fail, len(res.Failed)))
	fmt.Fprintf(&b, "  duration  %s\n", res.Duration.Round(time.Millisecond))

	writeIssues(&b, st, st.warn, "Skipped rows", res.Skipped)
	writeIssues(&b, st, st.warn, "Warnings", res.Warnings)
	writeIssues(&b, st, st.fail, "Write failures", res.Failed)

	if len(res.Duplicates) > 0 {
		lines := make([]string, 0, len(res.Duplicates))
		for _, d := range res.Duplicates {
			lines = append(lines, d.String())
		}
		fmt.Fprintf(&b, "\n%s\n%s\n", st.warn.Render("Duplicate ids (last row wins)"), st.section.Render(strings.Join(lines, "\n")))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func count(style lipgloss.Style, n int) string {
	if n == 0 {
		return "0"
	}
	return style.Render(fmt.Sprint(n))
}

func writeIssues(b *strings.Builder, st styles, heading lipgloss.Style, title string, issues []core.RowIssue) {
	if len(issues) == 0 {
		return
	}

	lines := make([]string, 0, min(len(issues), maxListed)+1)
	for i, is := range issues {
		if i == maxListed {
			lines = append(lines, st.detail.Render(fmt.Sprintf("... and %d more", len(issues)-maxListed)))
			break
		}
		lines = append(lines, formatIssue(is))
	}
	fmt.Fprintf(b, "\n%s\n%s\n", heading.Render(title), st.section.Render(strings.Join(lines, "\n")))
}

func formatIssue(is core.RowIssue) string {
	s := fmt.Sprintf("line %d", is.Line)
	if is.ID != "" {
		s += " [" + is.ID + "]"
	}
	if is.Path != "" {
		s += " " + is.Path
	}
	return s + ": " + is.Reason
}
