package problemgen

import "strings"

// StructuralValidator checks that required fields are present and that the
// blank fields agree with each other.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *Question) *ValidationError {
	fail := func(msg string) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: msg}
	}
	if q.ID == "" {
		return fail("id is empty")
	}
	if !q.Operation.Valid() {
		return fail("operation must be one of + - × ÷")
	}
	if strings.TrimSpace(q.DisplayText) == "" {
		return fail("display text is empty")
	}
	switch q.BlankPosition {
	case BlankResult:
		if q.IsFillBlank {
			return fail("fill-in question must hide operand a or b")
		}
	case BlankA, BlankB:
		if !q.IsFillBlank {
			return fail("only fill-in questions may hide an operand")
		}
	default:
		return fail("blank position must be result, a or b")
	}
	if hasMarker := strings.Contains(q.DisplayText, "?"); hasMarker != q.IsFillBlank {
		if q.IsFillBlank {
			return fail("fill-in display text has no ? marker")
		}
		return fail("display text reveals a ? marker on an ordinary question")
	}
	return nil
}
