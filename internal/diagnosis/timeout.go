package diagnosis

// TimeoutClassifier flags missing answers and answers slower than the
// per-question limit. It runs before the correctness check.
type TimeoutClassifier struct{}

func (c *TimeoutClassifier) Name() string { return "timeout" }

func (c *TimeoutClassifier) Classify(input *ClassifyInput) ErrorType {
	if input.Answer == nil {
		return ErrorTimeout
	}
	if input.ElapsedMs > int64(input.TimeLimitSecs)*1000 {
		return ErrorTimeout
	}
	return ""
}
