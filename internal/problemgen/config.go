package problemgen

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	govalidator "github.com/go-playground/validator/v10"
)

// ErrInvalidConfig wraps every Config validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config controls batch generation and session timing.
type Config struct {
	// Range is the inclusive upper bound for addition and subtraction
	// operands. Multiplication and division always use the 2-9 table.
	Range int `json:"range" toml:"range" validate:"gte=1"`

	// QuestionCount is the number of questions in a session.
	QuestionCount int `json:"questionCount" toml:"question_count" validate:"gte=1"`

	// TimeLimit is the per-question time allowance in seconds.
	TimeLimit int `json:"timeLimit" toml:"time_limit" validate:"gte=1"`

	// BorrowRatio is the fraction of a mixed batch that is borrow
	// subtraction; the rest is carry addition.
	BorrowRatio float64 `json:"borrowRatio" toml:"borrow_ratio" validate:"gte=0,lte=1"`
}

// DefaultConfig returns the standard drill settings.
func DefaultConfig() Config {
	return Config{
		Range:         20,
		QuestionCount: 10,
		TimeLimit:     5,
		BorrowRatio:   0.7,
	}
}

var validate = newValidate()

func newValidate() *govalidator.Validate {
	v := govalidator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the Config invariants.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var ve govalidator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	parts := make([]string, 0, len(ve))
	for _, fe := range ve {
		parts = append(parts, fmt.Sprintf("%s must be %s %s", fe.Field(), fe.Tag(), fe.Param()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(parts, "; "))
}

// Sanitized clamps every field into its valid domain. Generators call it so
// that a degenerate Config still yields questions.
func (c Config) Sanitized() Config {
	if c.Range < 1 {
		c.Range = 1
	}
	if c.QuestionCount < 1 {
		c.QuestionCount = 1
	}
	if c.TimeLimit < 1 {
		c.TimeLimit = 1
	}
	if c.BorrowRatio < 0 || math.IsNaN(c.BorrowRatio) {
		c.BorrowRatio = 0
	}
	if c.BorrowRatio > 1 {
		c.BorrowRatio = 1
	}
	return c
}
