package trace

import (
	"fmt"
	"strings"
)

// Level controls verbosity. Each level above LevelError lets one more
// Scope through.
type Level uint8

const (
	LevelOff    Level = iota
	LevelError        // nothing streamed, ring dumped on failure
	LevelPhase        // driver spans
	LevelDetail       // plus per-type spans
	LevelDebug        // plus member events
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|phase|detail|debug)", s)
}

// ShouldEmit reports whether events of scope pass this level.
func (l Level) ShouldEmit(scope Scope) bool {
	if l < LevelPhase {
		return false
	}
	return int(scope) <= int(l-LevelError)
}
