package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	roundsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "simplemath_rounds_total",
		Help: "Orchestration rounds by round number and outcome.",
	}, []string{"round", "outcome"})

	roundDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "simplemath_round_duration_seconds",
		Help:    "Latency of one language-model round trip.",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
	}, []string{"round"})

	animationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "simplemath_animations_created_total",
		Help: "Animation hand-offs by outcome.",
	}, []string{"outcome"})
)

// ObserveRound records the outcome and latency of round.
func ObserveRound(round int, d time.Duration, err error) {
	r := strconv.Itoa(round)
	roundsTotal.WithLabelValues(r, outcome(err)).Inc()
	roundDuration.WithLabelValues(r).Observe(d.Seconds())
}

// ObserveAnimation records an animation hand-off.
func ObserveAnimation(err error) {
	animationsCreated.WithLabelValues(outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}
