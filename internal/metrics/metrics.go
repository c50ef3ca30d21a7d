package metrics

import (
	"errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"net/http"
	"sync"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_errors_total",
			Help: "Total number of occurred errors.",
		},
		[]string{"type"},
	)
	PollCyclesCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_poll_cycles_total",
			Help: "Total number of poll cycles by result.",
		},
		[]string{"result"},
	)
	PollCycleDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bot_poll_cycle_duration_seconds",
			Help:    "Duration of each poll cycle in seconds.",
			Buckets: []float64{0.5, 1, 5, 15, 60, 300},
		},
	)
	DroppedTicksCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_poll_ticks_dropped_total",
			Help: "Total number of poll ticks dropped because a cycle was still running.",
		},
	)
	NewListingsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_new_listings_total",
			Help: "Total number of listings found for the first time.",
		},
	)
	DeliveriesCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_deliveries_total",
			Help: "Total number of alert deliveries per recipient by status.",
		},
		[]string{"status"},
	)
)

var registerOnce sync.Once

func register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(ErrorsCounter)
		prometheus.MustRegister(PollCyclesCounter)
		prometheus.MustRegister(PollCycleDuration)
		prometheus.MustRegister(DroppedTicksCounter)
		prometheus.MustRegister(NewListingsCounter)
		prometheus.MustRegister(DeliveriesCounter)
	})
}

// StartMetricsServer serves /metrics on address, an empty address only registers the collectors.
func StartMetricsServer(address string) *http.Server {

	register()
	if address == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: address, Handler: mux}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("metrics server stopped: %v", err)
		}
	}()
	log.Infof("metrics server listening on %s", address)
	return server
}
