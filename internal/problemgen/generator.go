package problemgen

import (
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// MaxAttempts bounds rejection sampling before a generator switches to its
// constructive fallback.
const MaxAttempts = 200

const (
	// Smallest ranges in which a borrow or carry pair exists. Smaller
	// ranges are raised to these.
	minBorrowRange = 10
	minCarryRange  = 5

	tableMin = 2
	tableMax = 9

	// Fill-in addition draws addends up to fillAddendMax and keeps the
	// total within two digits.
	fillAddendMax = 50
	fillTotalMax  = 99
)

// Generator produces questions from an injected random source. It is not
// safe for concurrent use.
type Generator struct {
	rng         *rand.Rand
	newID       func() string
	maxAttempts int
	log         zerolog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithRand sets the random source.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) { g.rng = r }
}

// WithSeed seeds a PCG source, making output reproducible.
func WithSeed(seed uint64) Option {
	return func(g *Generator) { g.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

// WithIDFunc replaces the question ID source.
func WithIDFunc(fn func() string) Option {
	return func(g *Generator) { g.newID = fn }
}

// WithMaxAttempts overrides the rejection sampling cap. Zero sends every
// constrained generator straight to its fallback.
func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		if n >= 0 {
			g.maxAttempts = n
		}
	}
}

// WithLogger sets the logger used for fallback diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(g *Generator) { g.log = l }
}

// New creates a Generator. Without options it draws from a randomly seeded
// source and uses UUIDs for question IDs.
func New(opts ...Option) *Generator {
	g := &Generator{
		rng:         rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		newID:       uuid.NewString,
		maxAttempts: MaxAttempts,
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// intn returns a uniform integer in [lo, hi]. It returns lo when the
// interval is empty.
func (g *Generator) intn(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + g.rng.IntN(hi-lo+1)
}

func (g *Generator) coin() bool {
	return g.rng.IntN(2) == 0
}

func (g *Generator) tableOperand() int {
	return g.intn(tableMin, tableMax)
}

// binary builds an ordinary "a op b =" question. The caller guarantees
// that a op b is defined.
func (g *Generator) binary(a, b int, op Operation, qt QuestionType) Question {
	result, _ := op.Apply(a, b)
	return Question{
		ID:            g.newID(),
		A:             a,
		B:             b,
		Result:        result,
		Operation:     op,
		CorrectAnswer: result,
		DisplayText:   equationText(a, op, b),
		HasBorrow:     needsRegroup(a, b, op),
		BlankPosition: BlankResult,
		Type:          qt,
	}
}

// BorrowSubtraction returns a - b with a >= b and the ones digit of a
// smaller than the ones digit of b. Ranges below 10 are raised to 10.
func (g *Generator) BorrowSubtraction(rangeMax int) Question {
	r := max(rangeMax, minBorrowRange)
	for range g.maxAttempts {
		a, b := g.intn(1, r), g.intn(1, r)
		if a >= b && needsRegroup(a, b, OpSubtract) {
			return g.binary(a, b, OpSubtract, TypeBorrow)
		}
	}
	g.log.Debug().Int("range", r).Msg("borrow subtraction: sampling exhausted, constructing")
	a, b := g.borrowPair(r)
	return g.binary(a, b, OpSubtract, TypeBorrow)
}

// borrowPair picks the ones digits so that aOnes < bOnes, then fills in
// tens digits with aTens > bTens so that a > b and a <= r. Requires r >= 10.
func (g *Generator) borrowPair(r int) (a, b int) {
	maxTens := r / 10
	aTens := g.intn(1, maxTens)
	onesCap := 9
	if aTens == maxTens {
		onesCap = r % 10
	}
	bOnes := g.intn(1, 9)
	aOnes := g.intn(0, min(bOnes-1, onesCap))
	bTens := g.intn(0, aTens-1)
	return aTens*10 + aOnes, bTens*10 + bOnes
}

// CarryAddition returns a + b whose ones digits sum to at least 10. Ranges
// below 5 are raised to 5.
func (g *Generator) CarryAddition(rangeMax int) Question {
	r := max(rangeMax, minCarryRange)
	for range g.maxAttempts {
		a, b := g.intn(1, r), g.intn(1, r)
		if needsRegroup(a, b, OpAdd) {
			return g.binary(a, b, OpAdd, TypeCarry)
		}
	}
	g.log.Debug().Int("range", r).Msg("carry addition: sampling exhausted, constructing")
	a, b := g.carryPair(r)
	return g.binary(a, b, OpAdd, TypeCarry)
}

// carryPair picks ones digits summing to at least 10, then backfills tens
// digits within r. Requires r >= 5.
func (g *Generator) carryPair(r int) (a, b int) {
	if r < 9 {
		a = g.intn(10-r, r)
		b = g.intn(10-a, r)
		return a, b
	}
	aOnes := g.intn(1, 9)
	bOnes := g.intn(10-aOnes, 9)
	a = g.intn(0, (r-aOnes)/10)*10 + aOnes
	b = g.intn(0, (r-bOnes)/10)*10 + bOnes
	return a, b
}

// Multiplication returns a × b with both factors from the 2-9 table.
func (g *Generator) Multiplication() Question {
	return g.binary(g.tableOperand(), g.tableOperand(), OpMultiply, TypeMultiply)
}

// Division returns (a×b) ÷ b, built from a product so the quotient is
// always exact.
func (g *Generator) Division() Question {
	quotient, divisor := g.tableOperand(), g.tableOperand()
	return g.binary(quotient*divisor, divisor, OpDivide, TypeDivide)
}
