package diagnosis

// OperationClassifier flags answers equal to the inverse operation applied
// to the same operands: 12 + 7 answered as 5, or 56 ÷ 7 answered as 392.
type OperationClassifier struct{}

func (c *OperationClassifier) Name() string { return "operation" }

func (c *OperationClassifier) Classify(input *ClassifyInput) ErrorType {
	x, y, op := input.Question.Solving()
	swapped, ok := op.Inverse().Apply(x, y)
	if ok && *input.Answer == swapped {
		return ErrorOperation
	}
	return ""
}
