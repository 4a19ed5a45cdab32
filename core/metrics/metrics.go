package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Ingestion holds the counters updated by the sync orchestrator.
type Ingestion struct {
	Runs            *prometheus.CounterVec
	FeedsCreated    prometheus.Counter
	FeedsUpdated    prometheus.Counter
	ArticlesCreated prometheus.Counter
	ArticlesSkipped prometheus.Counter
}

// NewIngestion creates the ingestion counters and registers them with reg.
// A nil registerer leaves them unregistered, which is what tests want.
func NewIngestion(reg prometheus.Registerer) *Ingestion {
	m := &Ingestion{
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "feedsync",
			Name:      "ingestion_runs_total",
			Help:      "Ingestion runs by operation and outcome.",
		}, []string{"operation", "outcome"}),
		FeedsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "feedsync",
			Name:      "feeds_created_total",
			Help:      "Feed records created.",
		}),
		FeedsUpdated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "feedsync",
			Name:      "feeds_updated_total",
			Help:      "Feed records overwritten by a later ingestion.",
		}),
		ArticlesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "feedsync",
			Name:      "articles_created_total",
			Help:      "Article records created.",
		}),
		ArticlesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "feedsync",
			Name:      "articles_skipped_total",
			Help:      "Fetched items that matched an existing article.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.Runs, m.FeedsCreated, m.FeedsUpdated, m.ArticlesCreated, m.ArticlesSkipped)
	}
	return m
}

// Outcome labels a finished run: "ok" or the error kind.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return outcomeFor(err)
}
