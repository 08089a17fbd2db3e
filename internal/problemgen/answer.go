package problemgen

import (
	"errors"
	"strconv"
	"strings"
)

// Input errors. Rejected input never reaches the session engine.
var (
	ErrEmptyAnswer = errors.New("answer is empty")
	ErrNotNumeric  = errors.New("answer is not a whole number")
)

// ParseAnswer converts learner input into an integer answer.
//
// Normalization rules:
// - Whitespace is trimmed
// - Leading zeros are ignored (e.g., "007" parses as 7)
// - A single leading minus sign is accepted
func ParseAnswer(input string) (int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, ErrEmptyAnswer
	}
	n, err := strconv.Atoi(input)
	if err != nil {
		return 0, ErrNotNumeric
	}
	return n, nil
}

// CheckAnswer reports whether input is a well-formed answer equal to the
// question's correct answer.
func CheckAnswer(input string, q *Question) bool {
	n, err := ParseAnswer(input)
	if err != nil {
		return false
	}
	return n == q.CorrectAnswer
}
