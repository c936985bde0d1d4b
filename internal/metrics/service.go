package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

type Service struct {
	GamesCreated          prometheus.Counter
	GamesCompleted        prometheus.Counter
	RoundsProcessed       prometheus.Counter
	RoundsRejected        *prometheus.CounterVec
	UnknownPlayersSkipped prometheus.Counter
	RoundDuration         prometheus.Histogram
	StartupTimeSeconds    prometheus.Gauge
}

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		GamesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pong_games_created_total",
			Help: "The total number of games created.",
		}),
		GamesCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pong_games_completed_total",
			Help: "The total number of games that reached a winner.",
		}),
		RoundsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pong_rounds_processed_total",
			Help: "The total number of rounds applied to games.",
		}),
		RoundsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pong_rounds_rejected_total",
			Help: "The total number of round submissions rejected, by reason.",
		}, []string{"reason"}),
		UnknownPlayersSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pong_unknown_players_skipped_total",
			Help: "Player ids in round submissions that matched no roster player.",
		}),
		RoundDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pong_round_processing_duration_seconds",
			Help:    "The duration of round processing including the transaction.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pong_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.GamesCreated,
		s.GamesCompleted,
		s.RoundsProcessed,
		s.RoundsRejected,
		s.UnknownPlayersSkipped,
		s.RoundDuration,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncGamesCreated() {
	s.GamesCreated.Inc()
}

func (s *Service) IncGamesCompleted() {
	s.GamesCompleted.Inc()
}

func (s *Service) IncRoundsProcessed() {
	s.RoundsProcessed.Inc()
}

func (s *Service) IncRoundsRejected(reason string) {
	s.RoundsRejected.WithLabelValues(reason).Inc()
}

func (s *Service) AddUnknownPlayersSkipped(n int) {
	s.UnknownPlayersSkipped.Add(float64(n))
}

func (s *Service) ObserveRoundDuration(seconds float64) {
	s.RoundDuration.Observe(seconds)
}

func (s *Service) SetStartupTime(seconds float64) {
	s.StartupTimeSeconds.Set(seconds)
}
