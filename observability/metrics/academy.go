package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// AcademyMetrics tracks the outcome of every academy state transition plus the
// headline economy gauges.
type AcademyMetrics struct {
	transitionsApplied  *prometheus.CounterVec
	transitionsRejected *prometheus.CounterVec
	xpMinted            *prometheus.CounterVec
	currentSeason       prometheus.Gauge
	activeLearners      prometheus.Counter
}

var (
	academyOnce     sync.Once
	academyRegistry *AcademyMetrics
)

// Academy returns the process-wide academy metrics collector.
func Academy() *AcademyMetrics {
	academyOnce.Do(func() {
		academyRegistry = &AcademyMetrics{
			transitionsApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "academy_transitions_applied_total",
				Help: "Count of successfully applied state transitions by operation.",
			}, []string{"op"}),
			transitionsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "academy_transitions_rejected_total",
				Help: "Count of rejected state transitions by operation.",
			}, []string{"op"}),
			xpMinted: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "academy_xp_minted_total",
				Help: "Total XP issued by mint reason.",
			}, []string{"reason"}),
			currentSeason: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "academy_current_season",
				Help: "Number of the currently active reward season.",
			}),
			activeLearners: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "academy_learner_profiles_created_total",
				Help: "Count of learner profiles initialised.",
			}),
		}
		prometheus.MustRegister(
			academyRegistry.transitionsApplied,
			academyRegistry.transitionsRejected,
			academyRegistry.xpMinted,
			academyRegistry.currentSeason,
			academyRegistry.activeLearners,
		)
	})
	return academyRegistry
}

// ObserveTransition records one transition outcome for the named operation.
func (m *AcademyMetrics) ObserveTransition(op string, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.transitionsRejected.WithLabelValues(op).Inc()
		return
	}
	m.transitionsApplied.WithLabelValues(op).Inc()
}

// AddXPMinted accumulates issued XP under its mint reason.
func (m *AcademyMetrics) AddXPMinted(reason string, amount uint64) {
	if m == nil || amount == 0 {
		return
	}
	m.xpMinted.WithLabelValues(reason).Add(float64(amount))
}

// SetCurrentSeason publishes the active season number.
func (m *AcademyMetrics) SetCurrentSeason(season uint32) {
	if m == nil {
		return
	}
	m.currentSeason.Set(float64(season))
}

// LearnerInitialised counts one new learner profile.
func (m *AcademyMetrics) LearnerInitialised() {
	if m == nil {
		return
	}
	m.activeLearners.Inc()
}
