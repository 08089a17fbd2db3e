package problemgen

import "fmt"

// Validator checks a question for correctness.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier for this validator, e.g.
	// "structural" or "math-check".
	Name() string

	// Validate returns nil if the question passes.
	Validate(q *Question) *ValidationError
}

// ValidationError describes why a question failed validation.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// DefaultValidators returns the standard chain in execution order.
func DefaultValidators() []Validator {
	return []Validator{
		&StructuralValidator{},
		&MathCheckValidator{},
	}
}

// Validate runs the default chain and returns the first failure.
func Validate(q *Question) *ValidationError {
	for _, v := range DefaultValidators() {
		if err := v.Validate(q); err != nil {
			return err
		}
	}
	return nil
}
