package diagnosis

// Classifier is a rule-based error classifier.
// Returns an error type, or "" if the rule doesn't apply.
type Classifier interface {
	Name() string
	Classify(input *ClassifyInput) ErrorType
}

// DefaultClassifiers returns the wrong-answer rules in priority order.
// Operation confusion is checked before regrouping because a sign mix-up
// is a different failure from a regroup slip. Careless matches everything
// and must stay last.
func DefaultClassifiers() []Classifier {
	return []Classifier{
		&OperationClassifier{},
		&BorrowClassifier{},
		&CarryClassifier{},
		&CarelessClassifier{},
	}
}

// RunClassifiers executes rule-based classifiers in order.
// Returns the first match, or ("", "") if no rules apply.
func RunClassifiers(classifiers []Classifier, input *ClassifyInput) (ErrorType, string) {
	for _, c := range classifiers {
		if t := c.Classify(input); t != "" {
			return t, c.Name()
		}
	}
	return "", ""
}

// Classify returns "" when the answer is correct and exactly one
// ErrorType otherwise. It never fails: a missing question or an answer
// matching no rule is careless.
func Classify(input *ClassifyInput) ErrorType {
	t, _ := classify(DefaultClassifiers(), input)
	return t
}

func classify(classifiers []Classifier, input *ClassifyInput) (ErrorType, string) {
	timeout := &TimeoutClassifier{}
	if t := timeout.Classify(input); t != "" {
		return t, timeout.Name()
	}
	if input.Question == nil {
		return ErrorCareless, "careless"
	}
	if *input.Answer == input.Question.CorrectAnswer {
		return "", ""
	}
	if t, name := RunClassifiers(classifiers, input); t != "" {
		return t, name
	}
	return ErrorCareless, "careless"
}
