package problemgen

import "math"

// Batch generates cfg.QuestionCount questions of type qt in shuffled
// order. Unknown types produce a borrow subtraction batch. Invalid Config
// values are clamped rather than rejected.
func (g *Generator) Batch(cfg Config, qt QuestionType) []Question {
	cfg = cfg.Sanitized()
	n := cfg.QuestionCount
	qs := make([]Question, 0, n)

	repeat := func(count int, gen func(i int) Question) {
		for i := range count {
			qs = append(qs, gen(i))
		}
	}
	borrow := func(int) Question { return g.BorrowSubtraction(cfg.Range) }
	carry := func(int) Question { return g.CarryAddition(cfg.Range) }
	multiply := func(int) Question { return g.Multiplication() }
	divide := func(int) Question { return g.Division() }

	switch qt {
	case TypeCarry:
		repeat(n, carry)
	case TypeMixed:
		borrowCount := int(math.Floor(float64(n) * cfg.BorrowRatio))
		repeat(borrowCount, borrow)
		repeat(n-borrowCount, carry)
	case TypeMultiply:
		repeat(n, multiply)
	case TypeDivide:
		repeat(n, divide)
	case TypeMultiplyDivide:
		mulCount := n / 2
		repeat(mulCount, multiply)
		repeat(n-mulCount, divide)
	case TypeAllFour:
		counts := SplitEven(n, 4)
		repeat(counts[0], carry)
		repeat(counts[1], borrow)
		repeat(counts[2], multiply)
		repeat(counts[3], divide)
	case TypeChainAddSubtract:
		repeat(n, func(i int) Question { return g.ChainAddSubtract(cfg.Range, i) })
	case TypeChainMultiplyDivide:
		repeat(n, func(int) Question { return g.ChainMultiplyDivide() })
	case TypeChainAllFour:
		repeat(n, g.ChainAllFour)
	case TypeFillAddSubtract:
		repeat(n, func(int) Question { return g.FillAddSubtract(cfg.Range) })
	case TypeFillMultiplyDivide:
		repeat(n, func(int) Question { return g.FillMultiplyDivide() })
	default:
		qt = TypeBorrow
		repeat(n, borrow)
	}

	for i := range qs {
		qs[i].Type = qt
	}
	g.Shuffle(qs)
	return qs
}

// SplitEven divides n into k counts that differ by at most one, giving the
// remainder to the earliest counts.
func SplitEven(n, k int) []int {
	if k <= 0 {
		return nil
	}
	counts := make([]int, k)
	for i := range counts {
		counts[i] = n / k
		if i < n%k {
			counts[i]++
		}
	}
	return counts
}

// Shuffle permutes qs uniformly in place.
func (g *Generator) Shuffle(qs []Question) {
	g.rng.Shuffle(len(qs), func(i, j int) { qs[i], qs[j] = qs[j], qs[i] })
}

// FromTriples rebuilds questions from stored triples, preserving order.
// Triples that cannot form a valid question are skipped; skipped reports
// how many.
func (g *Generator) FromTriples(triples []Triple, qt QuestionType) (qs []Question, skipped int) {
	qs = make([]Question, 0, len(triples))
	for _, t := range triples {
		if !t.Operation.Valid() {
			skipped++
			continue
		}
		if _, ok := t.Operation.Apply(t.A, t.B); !ok {
			skipped++
			continue
		}
		q := g.binary(t.A, t.B, t.Operation, qt)
		if verr := Validate(&q); verr != nil {
			g.log.Debug().Str("triple", t.String()).Str("reason", verr.Message).Msg("skipping stored question")
			skipped++
			continue
		}
		qs = append(qs, q)
	}
	return qs, skipped
}
