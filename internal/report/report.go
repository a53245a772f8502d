// Package report renders the final per-processor statistics of a run.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/utkarsh5026/schedsim/sim"
)

var (
	bold  = color.New(color.Bold)
	green = color.New(color.FgGreen)
	cyan  = color.New(color.FgCyan)
)

// Format selects how a report is printed.
type Format string

const (
	FormatTable Format = "table"
	FormatPlain Format = "plain"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatTable:
		return FormatTable, nil
	case FormatPlain:
		return FormatPlain, nil
	}
	return "", fmt.Errorf("unknown report format %q", s)
}

// Render writes r to w in the given format.
func Render(w io.Writer, r *sim.Report, f Format) error {
	if f == FormatPlain {
		return Plain(w, r)
	}
	return Table(w, r)
}

// Plain prints one line per processor followed by the elapsed seconds.
// Times are in milliseconds.
func Plain(w io.Writer, r *sim.Report) error {
	for _, p := range r.Processors {
		if _, err := fmt.Fprintf(w, "Processor %d: Real T: %d Work T: %d Wait T: %d\n",
			p.ID,
			p.RealTime.Milliseconds(),
			p.WorkTime.Milliseconds(),
			p.WaitTime.Milliseconds(),
		); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Elapsed: %d\n", int64(r.Elapsed/time.Second))
	return err
}

// Table prints the per-processor statistics as a table with a summary footer.
func Table(w io.Writer, r *sim.Report) error {
	printSectionHeader(w, "PROCESSOR STATISTICS",
		fmt.Sprintf("  Policy: %s   Processors: %d   Tasks: %d   Time unit: %s",
			r.Policy, len(r.Processors), r.Submitted, r.TimeUnit))

	table := tablewriter.NewWriter(w)
	table.Header("Processor", "Tasks", "Scheduled ms", "Real ms", "Work ms", "Wait ms")

	for _, p := range r.Processors {
		_ = table.Append(
			fmt.Sprintf("%d", p.ID),
			fmt.Sprintf("%d", p.Executed),
			FormatNumber(p.ScheduledTime.Milliseconds()),
			FormatNumber(p.RealTime.Milliseconds()),
			FormatNumber(p.WorkTime.Milliseconds()),
			FormatNumber(p.WaitTime.Milliseconds()),
		)
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("render processor table: %w", err)
	}

	fmt.Fprintln(w)
	_, _ = green.Fprintf(w, "Elapsed: %s\n", r.Elapsed.Round(time.Millisecond))
	return nil
}

// Trace prints the ordered list of scheduling decisions.
func Trace(w io.Writer, r *sim.Report) error {
	printSectionHeader(w, "ASSIGNMENTS")

	table := tablewriter.NewWriter(w)
	table.Header("Task", "Kind", "Processor", "Projected ms")

	for _, a := range r.Assignments {
		_ = table.Append(
			fmt.Sprintf("%d", a.TaskID),
			a.Kind.String(),
			fmt.Sprintf("%d", a.Processor),
			FormatNumber(a.Projected.Milliseconds()),
		)
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("render assignment table: %w", err)
	}
	return nil
}

// FormatNumber formats an integer with comma separators.
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := fmt.Sprintf("%d", n)
	var result strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			_, _ = result.WriteString(",")
		}
		_, _ = result.WriteRune(c)
	}
	return result.String()
}

func printSectionHeader(w io.Writer, title string, descriptions ...string) {
	fmt.Fprintln(w)
	_, _ = bold.Fprintln(w, "═══════════════════════════════════════════════════════════")
	_, _ = cyan.Fprintln(w, title)
	_, _ = bold.Fprintln(w, "═══════════════════════════════════════════════════════════")
	for _, desc := range descriptions {
		fmt.Fprintln(w, desc)
	}
	fmt.Fprintln(w)
}
