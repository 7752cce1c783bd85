package ports

type DecisionMetrics interface {
	RecordDecision(rule string)
	RecordFallback(reason string)
	RecordFailure()
}
