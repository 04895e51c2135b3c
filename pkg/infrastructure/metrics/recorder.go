package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vsinha/surgealloc/pkg/domain/entities"
)

const namespace = "surgealloc"

// Recorder counts plan outcomes on its own registry
type Recorder struct {
	registry     *prometheus.Registry
	plansBuilt   *prometheus.CounterVec
	directives   *prometheus.CounterVec
	dataGaps     *prometheus.CounterVec
	unitsOrdered *prometheus.CounterVec
}

// NewRecorder creates a recorder with all counters registered
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		plansBuilt: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plans_built_total",
			Help:      "Allocation plans built, by condition.",
		}, []string{"condition"}),
		directives: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "directives_total",
			Help:      "Directives issued, by kind and action.",
		}, []string{"kind", "action"}),
		dataGaps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "data_gaps_total",
			Help:      "Snapshot rows that were missing and defaulted, by kind.",
		}, []string{"kind"}),
		unitsOrdered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "units_ordered_total",
			Help:      "Units requested across purchase orders, by condition.",
		}, []string{"condition"}),
	}

	r.registry.MustRegister(r.plansBuilt, r.directives, r.dataGaps, r.unitsOrdered)
	return r
}

// Registry exposes the underlying registry for HTTP handlers or gathering
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Record adds one plan to the counters
func (r *Recorder) Record(plan *entities.AllocationPlan) {
	condition := plan.Condition.WireName()

	r.plansBuilt.WithLabelValues(condition).Inc()
	r.unitsOrdered.WithLabelValues(condition).Add(float64(plan.TotalUnitsOrdered()))

	for _, po := range plan.PurchaseOrders {
		r.directives.WithLabelValues("inventory", po.Urgency.String()).Inc()
	}
	for _, d := range plan.StaffingDirectives {
		r.directives.WithLabelValues("staffing", d.Action.String()).Inc()
	}
	for _, w := range plan.Warnings {
		r.dataGaps.WithLabelValues(w.Kind.String()).Inc()
	}
}

// WriteTextfile writes the current counters in the node_exporter textfile format
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", path, err)
	}
	return nil
}
