package history

// Level grades a session by accuracy.
type Level struct {
	Name    string
	Message string
}

var (
	LevelExcellent = Level{Name: "Excellent", Message: "Outstanding work! Keep it up!"}
	LevelGood      = Level{Name: "Good", Message: "Nice job, you're getting faster."}
	LevelPass      = Level{Name: "Pass", Message: "You passed. A little more practice will help."}
	LevelPractice  = Level{Name: "Needs practice", Message: "Don't give up! Review your mistakes and try again."}
)

// LevelFor maps an accuracy percentage to a Level: 90 and above is
// Excellent, 80 Good, 70 Pass.
func LevelFor(accuracy int) Level {
	switch {
	case accuracy >= 90:
		return LevelExcellent
	case accuracy >= 80:
		return LevelGood
	case accuracy >= 70:
		return LevelPass
	}
	return LevelPractice
}
