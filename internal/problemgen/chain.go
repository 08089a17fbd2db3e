package problemgen

import "fmt"

// Number of forms each chain generator cycles through.
const (
	AddSubtractForms = 4
	AllFourForms     = 2
)

const (
	chainTermMax     = 20 // largest addend or subtrahend in a chain
	chainMinuendBase = 20 // smallest leading minuend in a chain
	chainMinuendSpan = 40
)

// chain builds a two-step question whose final stage is first op last.
func (g *Generator) chain(first int, op Operation, last int, display string, qt QuestionType) Question {
	q := g.binary(first, last, op, qt)
	q.DisplayText = display
	return q
}

// ChainAddSubtract returns a three-term addition/subtraction chain. form
// selects a+b+c, a-b-c, a+b-c or a-b+c (taken modulo AddSubtractForms).
// Every intermediate and final value is non-negative.
func (g *Generator) ChainAddSubtract(rangeMax, form int) Question {
	t := min(chainTermMax, max(rangeMax, 1))
	span := min(chainMinuendSpan, max(rangeMax, 1)*2)

	switch ((form % AddSubtractForms) + AddSubtractForms) % AddSubtractForms {
	case 0:
		a, b, c := g.intn(1, t), g.intn(1, t), g.intn(1, t)
		return g.chain(a+b, OpAdd, c, fmt.Sprintf("%d + %d + %d =", a, b, c), TypeChainAddSubtract)
	case 1:
		b, c := g.intn(1, t), g.intn(1, t)
		lo := max(chainMinuendBase, b+c)
		a := g.intn(lo, lo+span-1)
		return g.chain(a-b, OpSubtract, c, fmt.Sprintf("%d - %d - %d =", a, b, c), TypeChainAddSubtract)
	case 2:
		a, b := g.intn(1, t), g.intn(1, t)
		c := g.intn(1, min(t, a+b))
		return g.chain(a+b, OpSubtract, c, fmt.Sprintf("%d + %d - %d =", a, b, c), TypeChainAddSubtract)
	default:
		b, c := g.intn(1, t), g.intn(1, t)
		lo := max(chainMinuendBase, b)
		a := g.intn(lo, lo+span-1)
		return g.chain(a-b, OpAdd, c, fmt.Sprintf("%d - %d + %d =", a, b, c), TypeChainAddSubtract)
	}
}

// ChainMultiplyDivide returns a × b ÷ c where c is drawn from the factors
// of a×b within the 2-9 table, so the result is exact.
func (g *Generator) ChainMultiplyDivide() Question {
	a, b := g.tableOperand(), g.tableOperand()
	product := a * b
	factors := tableFactors(product)
	c := factors[g.rng.IntN(len(factors))]
	return g.chain(product, OpDivide, c, fmt.Sprintf("%d × %d ÷ %d =", a, b, c), TypeChainMultiplyDivide)
}

// ChainAllFour returns a mixed-operator chain: (a×b) ÷ a + c for even
// forms, a × b - c for odd ones.
func (g *Generator) ChainAllFour(form int) Question {
	a, b := g.tableOperand(), g.tableOperand()
	product := a * b
	if form%AllFourForms == 0 {
		c := g.intn(1, chainTermMax)
		return g.chain(b, OpAdd, c, fmt.Sprintf("%d ÷ %d + %d =", product, a, c), TypeChainAllFour)
	}
	c := g.intn(1, min(chainTermMax, product))
	return g.chain(product, OpSubtract, c, fmt.Sprintf("%d × %d - %d =", a, b, c), TypeChainAllFour)
}

// tableFactors lists the divisors of n in [2, min(9, n)]. n is a product of
// two table operands, so the list is never empty.
func tableFactors(n int) []int {
	var out []int
	for d := tableMin; d <= min(tableMax, n); d++ {
		if n%d == 0 {
			out = append(out, d)
		}
	}
	if len(out) == 0 {
		out = append(out, 1)
	}
	return out
}
