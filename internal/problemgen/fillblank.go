package problemgen

const (
	fillMinuendBase   = 20
	fillMinuendSpan   = 50
	fillSubtrahendMax = 30
)

// fill turns the complete equation a op b into a fill-in question with
// one operand hidden, chosen uniformly.
func (g *Generator) fill(a, b int, op Operation, qt QuestionType) Question {
	q := g.binary(a, b, op, qt)
	q.IsFillBlank = true
	if g.coin() {
		q.BlankPosition = BlankA
		q.CorrectAnswer = a
	} else {
		q.BlankPosition = BlankB
		q.CorrectAnswer = b
	}
	q.DisplayText = blankText(a, op, b, q.Result, q.BlankPosition)
	x, y, sop := q.Solving()
	q.HasBorrow = needsRegroup(x, y, sop)
	return q
}

// FillAddSubtract returns "? + b = r", "a + ? = r", "? - b = r" or
// "a - ? = r". Addition totals never exceed two digits.
func (g *Generator) FillAddSubtract(rangeMax int) Question {
	r := max(rangeMax, 1)
	if g.coin() {
		hi := min(fillAddendMax, r)
		for range g.maxAttempts {
			a, b := g.intn(1, hi), g.intn(1, hi)
			if a+b <= fillTotalMax {
				return g.fill(a, b, OpAdd, TypeFillAddSubtract)
			}
		}
		a := g.intn(1, hi)
		b := g.intn(1, min(hi, fillTotalMax-a))
		return g.fill(a, b, OpAdd, TypeFillAddSubtract)
	}
	a := g.intn(fillMinuendBase, fillMinuendBase+min(fillMinuendSpan, r)-1)
	b := g.intn(1, min(fillSubtrahendMax, a-1))
	return g.fill(a, b, OpSubtract, TypeFillAddSubtract)
}

// FillMultiplyDivide returns a table multiplication or an exact division
// with one operand hidden. For division, a blank dividend solves as
// quotient × divisor and a blank divisor as dividend ÷ quotient.
func (g *Generator) FillMultiplyDivide() Question {
	a, b := g.tableOperand(), g.tableOperand()
	if g.coin() {
		return g.fill(a, b, OpMultiply, TypeFillMultiplyDivide)
	}
	return g.fill(a*b, b, OpDivide, TypeFillMultiplyDivide)
}
