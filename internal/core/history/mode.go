package history

import (
	"fmt"
	"strings"
)

// Mode is the restore state of the manager.
type Mode int

const (
	Idle      Mode = iota // Record, Undo and Redo are accepted
	Restoring             // a snapshot is being applied; Record is ignored
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Restoring:
		return "restoring"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Granularity decides how text edits become undo steps.
type Granularity int

const (
	// GranularitySession records one snapshot when an edit session that changed text ends.
	GranularitySession Granularity = iota
	// GranularityKeystroke records a snapshot on every text change.
	GranularityKeystroke
)

func (g Granularity) String() string {
	switch g {
	case GranularitySession:
		return "session"
	case GranularityKeystroke:
		return "keystroke"
	default:
		return fmt.Sprintf("Granularity(%d)", int(g))
	}
}

// ParseGranularity maps "session" or "keystroke" to a Granularity.
func ParseGranularity(name string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "session":
		return GranularitySession, nil
	case "keystroke":
		return GranularityKeystroke, nil
	default:
		return GranularitySession, fmt.Errorf("unknown checkpoint granularity %q", name)
	}
}
