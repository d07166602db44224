// Package metrics provides Prometheus metrics for the prescriptions service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "prescriptions"

var (
	// PipelineResponsesTotal tracks pipeline responses by status code and outcome
	PipelineResponsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "responses_total",
			Help:      "Total number of pipeline responses by status code and outcome",
		},
		[]string{"status_code", "outcome"},
	)

	// PipelineDuration tracks end to end pipeline duration in seconds
	PipelineDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "Duration of the prescriptions pipeline in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 9, 10},
		},
	)

	// DeadlinesExceededTotal tracks deadline runner timeouts by stage
	DeadlinesExceededTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "deadline",
			Name:      "exceeded_total",
			Help:      "Total number of stages that ran past their deadline",
		},
		[]string{"stage"},
	)

	// ServicesCacheLookupsTotal tracks services cache reads by result
	ServicesCacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "services_cache",
			Name:      "lookups_total",
			Help:      "Total number of services cache reads by result",
		},
		[]string{"result"},
	)

	// ServiceSearchRequestsTotal tracks pharmacy lookups by result
	ServiceSearchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "service_search",
			Name:      "requests_total",
			Help:      "Total number of distance selling lookups by result",
		},
		[]string{"result"},
	)

	// StatusUpdateScenariosTotal tracks which status update scenario applied
	StatusUpdateScenariosTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "status_updates",
			Name:      "scenarios_total",
			Help:      "Total number of status update scenarios applied",
		},
		[]string{"scenario"},
	)
)

const (
	StagePipeline     = "pipeline"
	StageSpine        = "spine"
	StageEnrichment   = "enrichment"
	StageStatusUpdate = "status_update"

	CacheResultHit    = "hit"
	CacheResultAbsent = "absent"
	CacheResultMiss   = "miss"
	CacheResultError  = "error"

	LookupResultFound    = "found"
	LookupResultNotFound = "not_found"
	LookupResultError    = "error"
)

const (
	OutcomeSuccess          = "success"
	OutcomeInvalidNHSNumber = "invalid_nhs_number"
	OutcomeTimeout          = "timeout"
	OutcomeError            = "error"
)
