package repository

import (
	"time"

	"taskhub/pkg/metrics"
)

// observe times one store round trip for the db_query_duration metric.
// Use as: defer observe("insert", "tasks")()
func observe(operation, table string) func() {
	start := time.Now()
	return func() {
		metrics.RecordDBQueryDuration(operation, table, time.Since(start))
	}
}
