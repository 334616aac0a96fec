package autonomy

import "github.com/aneslog/aneslog-backend/internal/domain"

// Level is the ordinal mastery classification for one (resident, procedure)
// pair.
type Level string

const (
	LevelNotStarted       Level = "not_started"
	LevelLearning         Level = "learning"
	LevelCapable          Level = "capable"
	LevelDemonstratedOnce Level = "demonstrated_once"
	LevelMastered         Level = "mastered"
	LevelLocked           Level = "locked"
)

var levelRanks = map[Level]int{
	LevelNotStarted:       0,
	LevelLearning:         1,
	LevelCapable:          2,
	LevelDemonstratedOnce: 3,
	LevelMastered:         4,
	LevelLocked:           5,
}

func (l Level) Rank() int { return levelRanks[l] }

// DefaultMasteryRepeatThreshold is how many attempts at the highest declared
// tier it takes before mastery is recorded.
const DefaultMasteryRepeatThreshold = 3

// Counts are the supporting numbers behind a classification.
type Counts struct {
	Total             int `json:"total"`
	Autonomous        int `json:"autonomous"`
	Capable           int `json:"capable"`
	ReviewerValidated int `json:"reviewer_validated"`
}

func countAttempts(logs []domain.ProcedureLog) Counts {
	var c Counts
	for _, l := range logs {
		c.Total++
		switch l.Autonomy {
		case domain.AutonomyAutonomous:
			c.Autonomous++
		case domain.AutonomyCapable:
			c.Capable++
		}
		if l.Success != nil {
			c.ReviewerValidated++
		}
	}
	return c
}

// Classify reduces an attempt history plus any existing competence record to
// a mastery level. Pure; mutates nothing.
//
// A locked record short-circuits everything: once a senior has ratified
// mastery, later attempts can never lower the level.
func Classify(logs []domain.ProcedureLog, rec *domain.ProcedureCompetence, repeatThreshold int) (Level, Counts) {
	if repeatThreshold < 1 {
		repeatThreshold = DefaultMasteryRepeatThreshold
	}
	counts := countAttempts(logs)

	if rec != nil && (rec.IsLocked || rec.IsPreAcquired) {
		return LevelLocked, counts
	}
	if rec != nil && rec.IsMastered {
		return LevelMastered, counts
	}
	switch {
	case counts.Autonomous >= repeatThreshold:
		// Mastery condition met but not yet persisted; classify by the
		// counts so reads stay consistent with the pending write.
		return LevelMastered, counts
	case counts.Autonomous >= 1:
		return LevelDemonstratedOnce, counts
	case counts.Capable >= 1:
		return LevelCapable, counts
	case counts.Total >= 1:
		return LevelLearning, counts
	default:
		return LevelNotStarted, counts
	}
}

// MasteryPoint marks where in the series mastery was first met.
type MasteryPoint struct {
	AtLogCount int
}

// DetectMastery is the pure decision behind the first-mastery write path:
// once the count of highest-tier attempts reaches the repeat threshold, it
// reports the total attempts seen at that moment. Nil means not yet.
func DetectMastery(logs []domain.ProcedureLog, repeatThreshold int) *MasteryPoint {
	if repeatThreshold < 1 {
		repeatThreshold = DefaultMasteryRepeatThreshold
	}
	autonomous := 0
	for i, l := range logs {
		if l.Autonomy == domain.AutonomyAutonomous {
			autonomous++
			if autonomous >= repeatThreshold {
				return &MasteryPoint{AtLogCount: i + 1}
			}
		}
	}
	return nil
}
