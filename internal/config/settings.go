package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	govalidator "github.com/go-playground/validator/v10"

	"github.com/abhisek/mathdrill/internal/problemgen"
)

// Settings is the merged configuration used by the commands.
type Settings struct {
	Drill        problemgen.Config       `json:"drill" validate:"-"`
	QuestionType problemgen.QuestionType `json:"type"`
	Strict       bool                    `json:"strict"`

	Store       string `json:"store" validate:"oneof=sqlite redis memory"`
	DBPath      string `json:"dbPath"`
	RedisURL    string `json:"redisUrl" validate:"required_if=Store redis"`
	RedisPrefix string `json:"redisPrefix"`

	LogLevel  string `json:"logLevel" validate:"oneof=trace debug info warn error"`
	LogFormat string `json:"logFormat" validate:"oneof=json pretty"`
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		Drill:        problemgen.DefaultConfig(),
		QuestionType: problemgen.TypeBorrow,
		Store:        "sqlite",
		LogLevel:     "info",
		LogFormat:    "json",
	}
}

// Resolve merges defaults, then file, then env.
func Resolve(file FileConfig, env EnvConfig) Settings {
	s := DefaultSettings()

	d := file.Drill
	setPtr(&s.Drill.Range, d.Range)
	setPtr(&s.Drill.QuestionCount, d.QuestionCount)
	setPtr(&s.Drill.TimeLimit, d.TimeLimit)
	setPtr(&s.Drill.BorrowRatio, d.BorrowRatio)
	setPtr(&s.Strict, d.Strict)
	if d.Type != nil {
		s.QuestionType = problemgen.QuestionType(*d.Type)
	}

	setPtr(&s.Store, file.Store.Backend)
	setPtr(&s.DBPath, file.Store.Path)
	setPtr(&s.RedisURL, file.Store.RedisURL)
	setPtr(&s.RedisPrefix, file.Store.Prefix)
	setPtr(&s.LogLevel, file.Log.Level)
	setPtr(&s.LogFormat, file.Log.Format)

	setStr(&s.DBPath, env.DB)
	setStr(&s.Store, env.Store)
	setStr(&s.RedisURL, env.RedisURL)
	setStr(&s.LogLevel, env.LogLevel)
	setStr(&s.LogFormat, env.LogFormat)
	return s
}

func setPtr[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func setStr(dst *string, v string) {
	if v != "" {
		*dst = v
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

// Validate checks every setting, the drill config included.
func (s Settings) Validate() error {
	var problems []string
	if err := validate.Struct(s); err != nil {
		var ve govalidator.ValidationErrors
		if !errors.As(err, &ve) {
			return err
		}
		for _, fe := range ve {
			problems = append(problems, describe(fe))
		}
	}
	if err := s.Drill.Validate(); err != nil {
		problems = append(problems, err.Error())
	}
	if !s.QuestionType.Valid() {
		problems = append(problems, fmt.Sprintf("unknown question type %q", s.QuestionType))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid settings: %s", strings.Join(problems, "; "))
	}
	return nil
}

func describe(fe govalidator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value())
	case "required_if":
		return fmt.Sprintf("%s is required when %s", fe.Field(), strings.Replace(fe.Param(), " ", " is ", 1))
	}
	return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
}
