package session

// BaseComboMilestone is the first combo length that is celebrated.
const BaseComboMilestone = 5

// NextComboMilestone returns the next combo milestone above current.
func NextComboMilestone(current int) int {
	milestones := []int{5, 10, 15, 20}
	for _, m := range milestones {
		if m > current {
			return m
		}
	}
	// Beyond 20, every 5.
	return ((current / 5) + 1) * 5
}

// IsComboMilestone reports whether a combo of length n has just reached a
// milestone.
func IsComboMilestone(n int) bool {
	return n > 0 && NextComboMilestone(n-1) == n
}

// LongestCombo returns the longest run of consecutive correct attempts.
// Any incorrect or timed-out attempt resets the run.
func LongestCombo(attempts []Attempt) int {
	longest, run := 0, 0
	for _, a := range attempts {
		if !a.Correct {
			run = 0
			continue
		}
		run++
		longest = max(longest, run)
	}
	return longest
}
