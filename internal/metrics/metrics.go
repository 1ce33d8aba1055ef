package metrics

import (
	"github.com/litetable/litetable-sink/internal/translator"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "litetable_sink"

// statsSource exposes the counters of one sink instance.
type statsSource interface {
	ID() string
	Stats() translator.Stats
}

// SinkCollectors returns counters that read s on every scrape.
func SinkCollectors(s statsSource) []prometheus.Collector {
	labels := prometheus.Labels{"instance_id": s.ID()}
	return []prometheus.Collector{
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "records_total",
			Help:        "Records that reached the store, successfully or not.",
			ConstLabels: labels,
		}, func() float64 {
			return float64(s.Stats().RecordsSeen)
		}),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "dirty_records_total",
			Help:        "Records dropped because of a blank row key, bad arity or a store error.",
			ConstLabels: labels,
		}, func() float64 {
			return float64(s.Stats().DirtyRecords)
		}),
	}
}

// Register adds the collectors of s to reg.
func Register(reg prometheus.Registerer, s statsSource) error {
	for _, c := range SinkCollectors(s) {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
