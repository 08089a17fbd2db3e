package problemgen

import (
	"errors"
	"fmt"
	"strings"
)

// Operation is one of the four arithmetic operators.
type Operation string

const (
	OpAdd      Operation = "+"
	OpSubtract Operation = "-"
	OpMultiply Operation = "×"
	OpDivide   Operation = "÷"
)

// ErrUnknownOperation is returned by ParseOperation for unrecognized input.
var ErrUnknownOperation = errors.New("unknown operation")

// AllOperations returns the operators in display order.
func AllOperations() []Operation {
	return []Operation{OpAdd, OpSubtract, OpMultiply, OpDivide}
}

// ParseOperation accepts the display symbols and their ASCII spellings
// ("*", "x", "/").
func ParseOperation(s string) (Operation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "+", "add", "plus":
		return OpAdd, nil
	case "-", "−", "sub", "minus":
		return OpSubtract, nil
	case "×", "*", "x", "mul", "times":
		return OpMultiply, nil
	case "÷", "/", "div":
		return OpDivide, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOperation, s)
}

// Valid reports whether o is one of the four operators.
func (o Operation) Valid() bool {
	switch o {
	case OpAdd, OpSubtract, OpMultiply, OpDivide:
		return true
	}
	return false
}

// Inverse returns the operator that undoes o.
func (o Operation) Inverse() Operation {
	switch o {
	case OpAdd:
		return OpSubtract
	case OpSubtract:
		return OpAdd
	case OpMultiply:
		return OpDivide
	case OpDivide:
		return OpMultiply
	}
	return o
}

// Apply evaluates a o b. ok is false for an unknown operator, a zero
// divisor, or a division that leaves a remainder.
func (o Operation) Apply(a, b int) (result int, ok bool) {
	switch o {
	case OpAdd:
		return a + b, true
	case OpSubtract:
		return a - b, true
	case OpMultiply:
		return a * b, true
	case OpDivide:
		if b == 0 || a%b != 0 {
			return 0, false
		}
		return a / b, true
	}
	return 0, false
}

// BlankPosition names the hidden slot of an equation.
type BlankPosition string

const (
	BlankResult BlankPosition = "result"
	BlankA      BlankPosition = "a"
	BlankB      BlankPosition = "b"
)

// Question is a single drill item.
//
// A op B = Result is always the complete, true equation. CorrectAnswer is
// Result for ordinary questions and the hidden operand for fill-in-the-blank
// ones. For two-step chains A is the first-stage result and B the operand of
// the final stage; DisplayText shows the whole chain.
type Question struct {
	ID            string        `json:"id"`
	A             int           `json:"a"`
	B             int           `json:"b"`
	Result        int           `json:"result"`
	Operation     Operation     `json:"operation"`
	CorrectAnswer int           `json:"correctAnswer"`
	DisplayText   string        `json:"displayText"`
	HasBorrow     bool          `json:"hasBorrow"`
	IsFillBlank   bool          `json:"isFillBlank"`
	BlankPosition BlankPosition `json:"blankPosition"`
	Type          QuestionType  `json:"type,omitempty"`
}

// Solving returns the two quantities visible to the learner and the
// operation that turns them into CorrectAnswer. "? - 7 = 15" solves as
// 15 + 7 and "40 ÷ ? = 8" as 40 ÷ 8.
func (q *Question) Solving() (x, y int, op Operation) {
	switch q.BlankPosition {
	case BlankA:
		return q.Result, q.B, q.Operation.Inverse()
	case BlankB:
		if q.Operation == OpAdd || q.Operation == OpMultiply {
			return q.Result, q.A, q.Operation.Inverse()
		}
		return q.A, q.Result, q.Operation
	}
	return q.A, q.B, q.Operation
}

// Triple is the minimal persisted form of a question: two operands and an
// operator. Wrong-set reviews and custom sets are stored as triples.
type Triple struct {
	A         int       `json:"a"`
	B         int       `json:"b"`
	Operation Operation `json:"operation"`
}

func (t Triple) String() string {
	return fmt.Sprintf("%d %s %d", t.A, t.Operation, t.B)
}

// needsRegroup reports whether x op y requires a carry (+) or borrow (-)
// at the ones digit.
func needsRegroup(x, y int, op Operation) bool {
	switch op {
	case OpAdd:
		return onesDigit(x)+onesDigit(y) >= 10
	case OpSubtract:
		return onesDigit(x) < onesDigit(y)
	}
	return false
}

func onesDigit(n int) int {
	if n < 0 {
		n = -n
	}
	return n % 10
}

// equationText renders "a op b =" with the answer left to the caller.
func equationText(a int, op Operation, b int) string {
	return fmt.Sprintf("%d %s %d =", a, op, b)
}

// blankText renders a fill-in equation with "?" in the hidden slot.
func blankText(a int, op Operation, b, result int, blank BlankPosition) string {
	switch blank {
	case BlankA:
		return fmt.Sprintf("? %s %d = %d", op, b, result)
	case BlankB:
		return fmt.Sprintf("%d %s ? = %d", a, op, result)
	}
	return equationText(a, op, b)
}
