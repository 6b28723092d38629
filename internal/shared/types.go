package shared

// Asynq task types.
const (
	TypeSendContactEmail  = "email:contact"
	TypePruneViewBuckets  = "startup:prune_view_buckets"
	TypeWarmTrendingCache = "startup:warm_trending"
)

// Asynq queues and their weights.
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

var QueueWeights = map[string]int{
	QueueCritical: 6,
	QueueDefault:  3,
	QueueLow:      1,
}
