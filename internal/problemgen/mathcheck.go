package problemgen

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MathCheckValidator independently recomputes the answer, both from the
// stored operands and from the display text, so that the equation shown to
// the learner always matches CorrectAnswer.
type MathCheckValidator struct{}

func (v *MathCheckValidator) Name() string { return "math-check" }

func (v *MathCheckValidator) Validate(q *Question) *ValidationError {
	fail := func(format string, args ...any) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf(format, args...)}
	}

	if q.A < 0 || q.B < 0 || q.Result < 0 || q.CorrectAnswer < 0 {
		return fail("negative value in %d %s %d = %d", q.A, q.Operation, q.B, q.Result)
	}
	result, ok := q.Operation.Apply(q.A, q.B)
	if !ok {
		return fail("%d %s %d has no exact integer result", q.A, q.Operation, q.B)
	}
	if result != q.Result {
		return fail("computed %d but question claims %d", result, q.Result)
	}
	x, y, op := q.Solving()
	solved, ok := op.Apply(x, y)
	if !ok || solved != q.CorrectAnswer {
		return fail("solving %d %s %d does not give answer %d", x, op, y, q.CorrectAnswer)
	}

	shown, err := computeDisplayed(q.DisplayText)
	if err != nil {
		// Free-form text is not checked.
		return nil
	}
	if shown != q.CorrectAnswer {
		return fail("display text %q evaluates to %d but answer is %d", q.DisplayText, shown, q.CorrectAnswer)
	}
	return nil
}

var tokenRe = regexp.MustCompile(`\d+|[+\-×÷*/?=]`)

var errNotComputable = errors.New("not computable")

// computeDisplayed evaluates an equation as displayed: "7 × 8 ÷ 4 =",
// "? - 7 = 15" or "40 ÷ ? = 8".
func computeDisplayed(text string) (int, error) {
	tokens := tokenRe.FindAllString(text, -1)
	eq := -1
	for i, tok := range tokens {
		if tok == "=" {
			eq = i
			break
		}
	}
	if eq < 0 {
		return evalExpr(tokens)
	}
	lhs, rhs := tokens[:eq], tokens[eq+1:]

	if len(rhs) == 0 || (len(rhs) == 1 && rhs[0] == "?") {
		return evalExpr(lhs)
	}
	if len(lhs) != 3 || len(rhs) != 1 {
		return 0, errNotComputable
	}
	r, err := strconv.Atoi(rhs[0])
	if err != nil {
		return 0, errNotComputable
	}
	op, err := ParseOperation(lhs[1])
	if err != nil {
		return 0, errNotComputable
	}

	var value int
	var ok bool
	switch {
	case lhs[0] == "?":
		y, err := strconv.Atoi(lhs[2])
		if err != nil {
			return 0, errNotComputable
		}
		value, ok = op.Inverse().Apply(r, y)
	case lhs[2] == "?":
		x, err := strconv.Atoi(lhs[0])
		if err != nil {
			return 0, errNotComputable
		}
		if op == OpAdd || op == OpMultiply {
			value, ok = op.Inverse().Apply(r, x)
		} else {
			value, ok = op.Apply(x, r)
		}
	default:
		return 0, errNotComputable
	}
	if !ok {
		return 0, fmt.Errorf("blank has no exact integer value")
	}
	return value, nil
}

// evalExpr evaluates alternating number/operator tokens with × and ÷
// binding tighter than + and -.
func evalExpr(tokens []string) (int, error) {
	if len(tokens) == 0 || len(tokens)%2 == 0 {
		return 0, errNotComputable
	}
	nums := make([]int, 0, len(tokens)/2+1)
	ops := make([]Operation, 0, len(tokens)/2)
	for i, tok := range tokens {
		if i%2 == 0 {
			n, err := strconv.Atoi(tok)
			if err != nil {
				return 0, errNotComputable
			}
			nums = append(nums, n)
			continue
		}
		op, err := ParseOperation(strings.TrimSpace(tok))
		if err != nil {
			return 0, errNotComputable
		}
		ops = append(ops, op)
	}

	// Collapse × and ÷ left to right.
	terms := []int{nums[0]}
	var addOps []Operation
	for i, op := range ops {
		next := nums[i+1]
		if op == OpMultiply || op == OpDivide {
			v, ok := op.Apply(terms[len(terms)-1], next)
			if !ok {
				return 0, fmt.Errorf("%d %s %d is not exact", terms[len(terms)-1], op, next)
			}
			terms[len(terms)-1] = v
			continue
		}
		terms = append(terms, next)
		addOps = append(addOps, op)
	}

	total := terms[0]
	for i, op := range addOps {
		total, _ = op.Apply(total, terms[i+1])
	}
	return total, nil
}
