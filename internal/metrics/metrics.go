// Package metrics exposes prometheus collectors for the construction
// protocol: construct outcomes and latency, store population, and the
// notifications sent to the simulation engine.
//
// A nil *Recorder is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/specialistvlad/detgeo/internal/geostore"
)

const namespace = "detgeo"

// Notification kinds sent to the engine.
const (
	PhysicsModified      = "physics_modified"
	ReinitializeGeometry = "reinitialize_geometry"
)

// Recorder owns a private registry so several recorders can coexist in one
// process.
type Recorder struct {
	registry *prometheus.Registry

	constructs        *prometheus.CounterVec
	constructDuration prometheus.Histogram
	volumes           *prometheus.GaugeVec
	generation        prometheus.Gauge
	materials         prometheus.Gauge
	notifications     *prometheus.CounterVec
	mutations         *prometheus.CounterVec
}

// New creates a recorder with every collector registered. Go runtime and
// process collectors are included when withRuntime is set.
func New(withRuntime bool) *Recorder {
	reg := prometheus.NewRegistry()
	if withRuntime {
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		constructs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "constructs_total",
			Help:      "Total detector constructions by result.",
		}, []string{"result"}),
		constructDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "construct_duration_seconds",
			Help:      "Detector construction duration in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10), // 10us to ~2.6s
		}),
		volumes: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "store_entries",
			Help:      "Entries in the geometry store by kind.",
		}, []string{"kind"}),
		generation: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "store_generation",
			Help:      "Number of times the geometry store has been cleaned.",
		}),
		materials: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_materials",
			Help:      "Materials registered in the catalog.",
		}),
		notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "engine_notifications_total",
			Help:      "Notifications sent to the simulation engine by kind.",
		}, []string{"kind"}),
		mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Detector parameter mutations by operation and result.",
		}, []string{"operation", "result"}),
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// ObserveConstruct records one construct call.
func (r *Recorder) ObserveConstruct(d time.Duration, err error) {
	if r == nil {
		return
	}
	r.constructs.WithLabelValues(result(err)).Inc()
	r.constructDuration.Observe(d.Seconds())
}

// ObserveStore publishes the current store population.
func (r *Recorder) ObserveStore(s geostore.Stats) {
	if r == nil {
		return
	}
	r.volumes.WithLabelValues("solid").Set(float64(s.Solids))
	r.volumes.WithLabelValues("logical").Set(float64(s.Logicals))
	r.volumes.WithLabelValues("placed").Set(float64(s.Placed))
	r.generation.Set(float64(s.Generation))
}

// SetMaterials publishes the catalog size.
func (r *Recorder) SetMaterials(n int) {
	if r == nil {
		return
	}
	r.materials.Set(float64(n))
}

// ObserveNotification counts an engine notification.
func (r *Recorder) ObserveNotification(kind string) {
	if r == nil {
		return
	}
	r.notifications.WithLabelValues(kind).Inc()
}

// ObserveMutation counts a mutator call. A nil error is a success, any
// other error is recorded as a rejection.
func (r *Recorder) ObserveMutation(operation string, err error) {
	if r == nil {
		return
	}
	res := "applied"
	if err != nil {
		res = "rejected"
	}
	r.mutations.WithLabelValues(operation, res).Inc()
}

// Registry returns the recorder's registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Handler serves the registry in the prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "metrics are disabled", http.StatusNotFound)
		})
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
