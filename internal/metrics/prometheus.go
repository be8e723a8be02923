package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	GenerationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cad_generation_duration_seconds",
			Help:    "End-to-end generation duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"shape"},
	)

	GenerationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cad_generation_total",
			Help: "Total number of generation requests",
		},
		[]string{"status"},
	)

	ParseTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cad_parse_total",
			Help: "Total prompts parsed, by resolved shape",
		},
		[]string{"shape"},
	)

	ModificationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cad_modification_total",
			Help: "Total delta modifications applied",
		},
		[]string{"operation"},
	)

	ValidationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cad_validation_failures_total",
			Help: "Prompts rejected by geometry validation",
		},
		[]string{"shape"},
	)

	ValidationWarnings = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cad_validation_warnings_total",
			Help: "Validation warnings emitted",
		},
	)

	EstimateTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cad_estimate_total",
			Help: "Total cost and BOM estimates served",
		},
		[]string{"kind"},
	)

	HistoryDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "cad_history_depth",
			Help: "Current undo history depth",
		},
	)

	VersionsSaved = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cad_versions_saved_total",
			Help: "Named versions saved",
		},
	)

	ChatTokensUsed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cad_chat_tokens_used",
			Help: "Total assistant LLM tokens used",
		},
		[]string{"model", "type"},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cad_cache_hits_total",
			Help: "Total cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cad_cache_misses_total",
			Help: "Total cache misses",
		},
		[]string{"cache_type"},
	)

	GeneratorErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cad_generator_errors_total",
			Help: "Failed calls to the CAD generation service",
		},
	)
)

func Init() {
	prometheus.MustRegister(GenerationDuration)
	prometheus.MustRegister(GenerationTotal)
	prometheus.MustRegister(ParseTotal)
	prometheus.MustRegister(ModificationTotal)
	prometheus.MustRegister(ValidationFailures)
	prometheus.MustRegister(ValidationWarnings)
	prometheus.MustRegister(EstimateTotal)
	prometheus.MustRegister(HistoryDepth)
	prometheus.MustRegister(VersionsSaved)
	prometheus.MustRegister(ChatTokensUsed)
	prometheus.MustRegister(CacheHits)
	prometheus.MustRegister(CacheMisses)
	prometheus.MustRegister(GeneratorErrors)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
