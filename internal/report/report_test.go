package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/utkarsh5026/schedsim/sim"
	"github.com/utkarsh5026/schedsim/task"
)

func sampleReport() *sim.Report {
	return &sim.Report{
		Policy:    "least-loaded",
		TimeUnit:  time.Second,
		Submitted: 3,
		Elapsed:   21500 * time.Millisecond,
		Processors: []sim.ProcessorStats{
			{ID: 0, Assigned: 2, Executed: 2, ScheduledTime: 15 * time.Second, WorkTime: 15 * time.Second, RealTime: 15 * time.Second, WaitTime: 6500 * time.Millisecond},
			{ID: 1, Assigned: 1, Executed: 1, ScheduledTime: 5 * time.Second, WorkTime: 5 * time.Second, RealTime: 5 * time.Second, WaitTime: 16500 * time.Millisecond},
		},
		Assignments: []sim.Assignment{
			{TaskID: 1, Kind: task.A, Processor: 0, Projected: 5 * time.Second},
			{TaskID: 2, Kind: task.A, Processor: 1, Projected: 5 * time.Second},
			{TaskID: 3, Kind: task.B, Processor: 0, Projected: 15 * time.Second},
		},
	}
}

func TestPlain(t *testing.T) {
	var buf bytes.Buffer
	if err := Plain(&buf, sampleReport()); err != nil {
		t.Fatalf("Plain failed: %v", err)
	}

	want := "Processor 0: Real T: 15000 Work T: 15000 Wait T: 6500\n" +
		"Processor 1: Real T: 5000 Work T: 5000 Wait T: 16500\n" +
		"Elapsed: 21\n"
	if buf.String() != want {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestTable(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	if err := Table(&buf, sampleReport()); err != nil {
		t.Fatalf("Table failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"PROCESSOR STATISTICS", "least-loaded", " 15,000 ", " 16,500 ", "Elapsed: 21.5s"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "(") {
		t.Errorf("expected plain header labels:\n%s", out)
	}
}

func TestTrace(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	if err := Trace(&buf, sampleReport()); err != nil {
		t.Fatalf("Trace failed: %v", err)
	}

	out := buf.String()
	if n := strings.Count(out, " 5,000 "); n != 2 {
		t.Errorf("expected two rows projected at 5,000, got %d:\n%s", n, out)
	}
	if n := strings.Count(out, " 15,000 "); n != 1 {
		t.Errorf("expected one row projected at 15,000, got %d:\n%s", n, out)
	}
	if strings.Contains(out, "(") {
		t.Errorf("expected plain header labels:\n%s", out)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatTable, false},
		{"table", FormatTable, false},
		{"plain", FormatPlain, false},
		{"json", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q): unexpected error state %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-5000, "-5,000"},
	}

	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
