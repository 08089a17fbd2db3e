package problemgen

import (
	"errors"
	"fmt"
	"strings"
)

// QuestionType selects the composition of a batch.
type QuestionType string

const (
	TypeBorrow              QuestionType = "borrow"
	TypeCarry               QuestionType = "carry"
	TypeMixed               QuestionType = "mixed"
	TypeMultiply            QuestionType = "multiply"
	TypeDivide              QuestionType = "divide"
	TypeMultiplyDivide      QuestionType = "multiply_divide"
	TypeAllFour             QuestionType = "all_four"
	TypeChainAddSubtract    QuestionType = "chain_add_subtract"
	TypeChainMultiplyDivide QuestionType = "chain_multiply_divide"
	TypeChainAllFour        QuestionType = "chain_all_four"
	TypeFillAddSubtract     QuestionType = "fill_add_subtract"
	TypeFillMultiplyDivide  QuestionType = "fill_multiply_divide"
	TypeReview              QuestionType = "review"
	TypeCustom              QuestionType = "custom"
)

// ErrUnknownQuestionType is returned by ParseQuestionType.
var ErrUnknownQuestionType = errors.New("unknown question type")

var questionTypeNames = map[QuestionType]string{
	TypeBorrow:              "Borrow Subtraction",
	TypeCarry:               "Carry Addition",
	TypeMixed:               "Mixed Add/Sub",
	TypeMultiply:            "Multiplication",
	TypeDivide:              "Division",
	TypeMultiplyDivide:      "Mixed Mult/Div",
	TypeAllFour:             "All Four Operations",
	TypeChainAddSubtract:    "Add/Sub Chains",
	TypeChainMultiplyDivide: "Mult/Div Chains",
	TypeChainAllFour:        "Four-Op Chains",
	TypeFillAddSubtract:     "Add/Sub Fill-in",
	TypeFillMultiplyDivide:  "Mult/Div Fill-in",
	TypeReview:              "Wrong-Set Review",
	TypeCustom:              "Custom Set",
}

// GeneratedTypes returns the types Batch can compose from a Config alone,
// in menu order. Review and custom sets are built from stored triples.
func GeneratedTypes() []QuestionType {
	return []QuestionType{
		TypeBorrow, TypeCarry, TypeMixed,
		TypeMultiply, TypeDivide, TypeMultiplyDivide, TypeAllFour,
		TypeChainAddSubtract, TypeChainMultiplyDivide, TypeChainAllFour,
		TypeFillAddSubtract, TypeFillMultiplyDivide,
	}
}

// DisplayName returns the human-readable name, or the raw tag for unknown
// types so old records still render.
func (t QuestionType) DisplayName() string {
	if name, ok := questionTypeNames[t]; ok {
		return name
	}
	if t == "" {
		return "Unknown"
	}
	return string(t)
}

// Valid reports whether t is a known tag.
func (t QuestionType) Valid() bool {
	_, ok := questionTypeNames[t]
	return ok
}

// ParseQuestionType parses a tag. Hyphens are accepted in place of
// underscores.
func ParseQuestionType(s string) (QuestionType, error) {
	t := QuestionType(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownQuestionType, s)
	}
	return t, nil
}
