package diagnosis

import "github.com/abhisek/mathdrill/internal/problemgen"

// BorrowClassifier flags subtraction answers whose ones digit is the
// un-regrouped difference, the smaller ones digit taken from the larger,
// as in 41 - 17 = 36 instead of 24. When the ones digits are five apart
// both differences agree and the slip cannot be told apart.
type BorrowClassifier struct{}

func (c *BorrowClassifier) Name() string { return "borrow" }

func (c *BorrowClassifier) Classify(input *ClassifyInput) ErrorType {
	q := input.Question
	x, y, op := q.Solving()
	if op != problemgen.OpSubtract || !q.HasBorrow {
		return ""
	}
	xOnes, yOnes := ones(x), ones(y)
	regrouped := (10 + xOnes - yOnes) % 10
	naive := abs(xOnes - yOnes)
	got := ones(*input.Answer)
	if got == naive && got != regrouped {
		return ErrorBorrow
	}
	return ""
}

// CarryClassifier flags addition answers with a wrong ones digit when the
// ones digits sum to ten or more.
type CarryClassifier struct{}

func (c *CarryClassifier) Name() string { return "carry" }

func (c *CarryClassifier) Classify(input *ClassifyInput) ErrorType {
	x, y, op := input.Question.Solving()
	if op != problemgen.OpAdd {
		return ""
	}
	sum := ones(x) + ones(y)
	if sum < 10 {
		return ""
	}
	if ones(*input.Answer) != sum%10 {
		return ErrorCarry
	}
	return ""
}

func ones(n int) int {
	return abs(n) % 10
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
