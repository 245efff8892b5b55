package engine

import "github.com/prometheus/client_golang/prometheus"

var (
	documentsIngestedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ragd",
		Subsystem: "engine",
		Name:      "documents_ingested_total",
		Help:      "Total number of documents ingested",
	})

	chunksIndexedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ragd",
		Subsystem: "engine",
		Name:      "chunks_indexed_total",
		Help:      "Total number of chunks added to the index",
	})

	searchesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ragd",
		Subsystem: "engine",
		Name:      "searches_total",
		Help:      "Total number of searches, including those issued by RAG",
	})

	generationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ragd",
			Subsystem: "engine",
			Name:      "generations_total",
			Help:      "Total number of RAG generations by outcome",
		},
		[]string{"generator", "outcome"},
	)

	generationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ragd",
			Subsystem: "engine",
			Name:      "generation_duration_seconds",
			Help:      "Duration of RAG generations in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"generator"},
	)
)

func init() {
	prometheus.MustRegister(documentsIngestedTotal, chunksIndexedTotal, searchesTotal, generationsTotal, generationDuration)
}
