package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ProbeDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "prompt_eval_probe_duration_seconds",
			Help:    "Duration of individual link probes in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 15},
		},
	)

	LinkValidations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prompt_eval_link_validations_total",
			Help: "Final link validation results by classification",
		},
		[]string{"classification"},
	)

	QuestionsAsked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prompt_eval_questions_total",
			Help: "Questions sent to the assistant API by outcome",
		},
		[]string{"status"},
	)

	AskDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "prompt_eval_ask_duration_seconds",
			Help:    "Assistant API response time in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
		},
	)

	PromptVersionsEvaluated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "prompt_eval_prompt_versions_total",
			Help: "Prompt versions evaluated to completion",
		},
	)
)

func Init() {
	prometheus.MustRegister(ProbeDuration)
	prometheus.MustRegister(LinkValidations)
	prometheus.MustRegister(QuestionsAsked)
	prometheus.MustRegister(AskDuration)
	prometheus.MustRegister(PromptVersionsEvaluated)
}

func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
