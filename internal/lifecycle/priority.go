package lifecycle

// Priority is the urgency staff assign to a complaint.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// DefaultPriority is assigned to every newly filed complaint.
const DefaultPriority = PriorityMedium

var priorities = map[Priority]struct{}{
	PriorityLow:    {},
	PriorityMedium: {},
	PriorityHigh:   {},
	PriorityUrgent: {},
}

func ParsePriority(s string) (Priority, bool) {
	p := Priority(s)
	_, ok := priorities[p]
	return p, ok
}

// Mood is how the student felt when filing. It is recorded once and never changed.
type Mood string

const (
	MoodHappy    Mood = "happy"
	MoodNeutral  Mood = "neutral"
	MoodStressed Mood = "stressed"
)

func ParseMood(s string) (Mood, bool) {
	switch m := Mood(s); m {
	case MoodHappy, MoodNeutral, MoodStressed:
		return m, true
	}
	return "", false
}
