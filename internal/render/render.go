// Package render produces the human-readable terminal output for run
// summaries and single-record inspections, in plain or styled form.
package render

import (
	"fmt"
	"strings"

	"github.com/benchtools/flamelog/internal/batch"
	"github.com/benchtools/flamelog/internal/logparse"
	"github.com/charmbracelet/lipgloss"
)

var (
	okColor     = lipgloss.Color("#9ece6a")
	warnColor   = lipgloss.Color("#e0af68")
	errColor    = lipgloss.Color("#f7768e")
	headerColor = lipgloss.Color("#7aa2f7")
	mutedColor  = lipgloss.Color("#565f89")

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(headerColor)
	okStyle     = lipgloss.NewStyle().Bold(true).Foreground(okColor)
	warnStyle   = lipgloss.NewStyle().Bold(true).Foreground(warnColor)
	errStyle    = lipgloss.NewStyle().Bold(true).Foreground(errColor)
	mutedStyle  = lipgloss.NewStyle().Foreground(mutedColor)
)

// Summary renders a run summary. When pretty is false the output is plain
// text suitable for redirection.
func Summary(s *batch.Summary, pretty bool) string {
	var b strings.Builder

	extracted := s.Count(batch.StatusExtracted)
	rejected := s.Count(batch.StatusRejected)
	empty := s.Count(batch.StatusEmpty)
	skipped := s.Count(batch.StatusSkipped)
	failed := s.Count(batch.StatusFailed) + s.Count(batch.StatusUnreadable)

	if pretty {
		b.WriteString(headerStyle.Render("flamelog extraction summary"))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("%s extracted, %s rows total\n",
			okStyle.Render(fmt.Sprintf("%d", extracted)),
			okStyle.Render(fmt.Sprintf("%d", s.TotalRows()))))
		if rejected > 0 || empty > 0 || skipped > 0 {
			b.WriteString(fmt.Sprintf("%s rejected, %s empty, %s skipped\n",
				warnStyle.Render(fmt.Sprintf("%d", rejected)),
				warnStyle.Render(fmt.Sprintf("%d", empty)),
				warnStyle.Render(fmt.Sprintf("%d", skipped))))
		}
		if failed > 0 {
			b.WriteString(fmt.Sprintf("%s failed\n", errStyle.Render(fmt.Sprintf("%d", failed))))
		}
	} else {
		b.WriteString(fmt.Sprintf("processed %d files: %d extracted (%d rows), %d rejected, %d empty, %d skipped, %d failed\n",
			len(s.Results), extracted, s.TotalRows(), rejected, empty, skipped, failed))
	}

	for _, r := range s.Results {
		if r.Status == batch.StatusExtracted {
			continue
		}
		line := fmt.Sprintf("  %s: %s", r.Status, r.Path)
		if r.Error != "" {
			line += " (" + r.Error + ")"
		}
		if pretty {
			switch r.Status {
			case batch.StatusFailed, batch.StatusUnreadable:
				line = errStyle.Render(line)
			default:
				line = mutedStyle.Render(line)
			}
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

// Record renders a single parsed record for inspection: header fields,
// series lengths, and population counts.
func Record(rec *logparse.FileRecord, pretty bool) string {
	var b strings.Builder

	title := rec.Source
	if pretty {
		title = headerStyle.Render(title)
	}
	b.WriteString(title)
	b.WriteString("\n")

	writeField(&b, "initial states", rec.Header.InitialStates, pretty)
	writeField(&b, "output dir", rec.Header.OutputDir, pretty)
	writeField(&b, "device", rec.Header.DeviceString, pretty)
	writeField(&b, "total processing time (ms)", rec.Header.TotalProcessingTime, pretty)

	if rec.Population.Len() > 0 {
		b.WriteString(section("population", pretty))
		for _, label := range rec.Population.Keys() {
			b.WriteString(fmt.Sprintf("  %s: %d\n", label, rec.Population.Count(label)))
		}
	}

	if rec.Instrumentation.Len() > 0 {
		b.WriteString(section("instrumentation", pretty))
		for _, name := range rec.Instrumentation.Keys() {
			b.WriteString(fmt.Sprintf("  %s: %d measurements\n", name, len(rec.Instrumentation.Series(name))))
		}
		b.WriteString(fmt.Sprintf("  iterations: %d\n", rec.Instrumentation.MaxLen()))
	} else {
		b.WriteString(dim("no instrumentation\n", pretty))
	}

	return b.String()
}

func writeField(b *strings.Builder, name string, value *string, pretty bool) {
	if value == nil {
		b.WriteString(dim(fmt.Sprintf("%s: (absent)\n", name), pretty))
		return
	}
	b.WriteString(fmt.Sprintf("%s: %s\n", name, *value))
}

func section(name string, pretty bool) string {
	if pretty {
		return headerStyle.Render(name) + "\n"
	}
	return name + ":\n"
}

func dim(s string, pretty bool) string {
	if pretty {
		return mutedStyle.Render(strings.TrimSuffix(s, "\n")) + "\n"
	}
	return s
}
