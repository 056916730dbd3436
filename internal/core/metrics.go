package core

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// NewMetricsRecorder returns the recorder named by kind: none, expvar or
// prometheus. reg is only used for prometheus.
func NewMetricsRecorder(kind string, reg prometheus.Registerer) (MetricsRecorder, error) {
	switch kind {
	case "", "none":
		return noopMetricsRecorder{}, nil
	case "expvar":
		return NewExpvarMetricsRecorder(""), nil
	case "prometheus":
		return NewPrometheusMetricsRecorder(reg), nil
	}
	return nil, fmt.Errorf("unknown metrics recorder %q", kind)
}
