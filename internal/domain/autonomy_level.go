package domain

import "fmt"

// AutonomyLevel is the rating a resident declares for one performed
// procedure. The set is closed and ordered; comparisons go through Rank,
// never string comparison.
type AutonomyLevel string

const (
	AutonomyObserved   AutonomyLevel = "observed"
	AutonomyAssisted   AutonomyLevel = "assisted"
	AutonomyCapable    AutonomyLevel = "capable"
	AutonomyAutonomous AutonomyLevel = "autonomous"
)

var autonomyRanks = map[AutonomyLevel]int{
	AutonomyObserved:   0,
	AutonomyAssisted:   1,
	AutonomyCapable:    2,
	AutonomyAutonomous: 3,
}

func (l AutonomyLevel) Rank() int {
	return autonomyRanks[l]
}

func (l AutonomyLevel) Valid() bool {
	_, ok := autonomyRanks[l]
	return ok
}

func AutonomyLevels() []AutonomyLevel {
	return []AutonomyLevel{AutonomyObserved, AutonomyAssisted, AutonomyCapable, AutonomyAutonomous}
}

// ParseAutonomyLevel rejects anything outside the closed set. Handlers call
// this before a log row is created, so downstream code can assume validity.
func ParseAutonomyLevel(s string) (AutonomyLevel, error) {
	l := AutonomyLevel(s)
	if !l.Valid() {
		return "", fmt.Errorf("unknown autonomy level %q", s)
	}
	return l, nil
}
