package metrics

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Outcome string

const (
	Success Outcome = "success"
	Error   Outcome = "error"
)

func (o Outcome) String() string {
	return string(o)
}

var (
	once sync.Once

	extrinsicsSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stakedash_extrinsics_submitted_total",
			Help: "Extrinsic submissions by call and outcome.",
		},
		[]string{"call", "outcome"},
	)
	feeEstimateDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stakedash_fee_estimate_duration_seconds",
			Help:    "Histogram of fee estimation durations in seconds.",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"call", "cached"},
	)
)

// Init registers the collectors and, when port > 0, serves /metrics on it.
func Init(port int) {
	once.Do(func() {
		prometheus.MustRegister(extrinsicsSubmitted, feeEstimateDuration)
		if port > 0 {
			initMetricsRouter(port)
		}
	})
}

func initMetricsRouter(port int) {
	router := chi.NewRouter()
	router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	go func() {
		addr := fmt.Sprintf("127.0.0.1:%d", port)
		if err := http.ListenAndServe(addr, router); err != nil {
			log.Error().Err(err).Msgf("metrics server on %s stopped", addr)
		}
	}()
}

// RecordSubmission counts one submission attempt of call.
func RecordSubmission(call string, outcome Outcome) {
	extrinsicsSubmitted.WithLabelValues(call, outcome.String()).Inc()
}

// StartFeeEstimateTimer returns a func that observes the elapsed estimate time.
func StartFeeEstimateTimer(call string) func(cached bool) {
	start := time.Now()
	return func(cached bool) {
		feeEstimateDuration.WithLabelValues(call, fmt.Sprintf("%t", cached)).Observe(time.Since(start).Seconds())
	}
}
