package diagnosis

// CarelessClassifier is the catch-all for wrong answers that match no
// specific pattern.
type CarelessClassifier struct{}

func (c *CarelessClassifier) Name() string { return "careless" }

func (c *CarelessClassifier) Classify(_ *ClassifyInput) ErrorType {
	return ErrorCareless
}
