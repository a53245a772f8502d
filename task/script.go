package task

import (
	"errors"
	"strings"
)

var ErrEmptyScript = errors.New("empty task script")

// StepType distinguishes the two things a script character can ask for.
type StepType int

const (
	StepTask StepType = iota
	StepPause
)

// Step is one parsed script instruction: either submit a task of Kind, or
// pause the feed for Units time units.
type Step struct {
	Type  StepType
	Kind  Kind
	Units int
}

// Script is a parsed feed of tasks and pauses.
type Script []Step

// ParseScript parses a feed string such as "ABCD5AB5CD".
//
// Letters A-D submit a task, digits pause the feed for that many time units
// and any other character is ignored.
func ParseScript(s string) (Script, error) {
	if strings.TrimSpace(s) == "" {
		return nil, ErrEmptyScript
	}

	script := make(Script, 0, len(s))
	for _, r := range s {
		if k, ok := ParseKind(r); ok {
			script = append(script, Step{Type: StepTask, Kind: k})
			continue
		}
		if r >= '0' && r <= '9' {
			script = append(script, Step{Type: StepPause, Units: int(r - '0')})
		}
	}
	return script, nil
}

// TaskCount returns the number of tasks the script submits.
func (s Script) TaskCount() int {
	n := 0
	for _, st := range s {
		if st.Type == StepTask {
			n++
		}
	}
	return n
}

// PauseUnits returns the total number of pause units in the script.
func (s Script) PauseUnits() int {
	n := 0
	for _, st := range s {
		if st.Type == StepPause {
			n += st.Units
		}
	}
	return n
}
