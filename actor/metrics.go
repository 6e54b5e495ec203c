package actor

import (
	"context"
	"errors"

	"github.com/amp-labs/chanactor/channel"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for actor handles and drivers. Labeled metrics carry the
// "subsystem" and "actor" labels; per-command metrics add "command".

var latencyBuckets = []float64{ //nolint:gochecknoglobals
	0.0001, // 100µs
	0.001,  // 1ms
	0.01,   // 10ms
	0.1,    // 100ms
	1,      // 1s
	10,     // 10s
}

var (
	// driversStarted counts driver loops that began consuming.
	driversStarted = promauto.NewCounter(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "actor_drivers_started",
		Help: "The total number of actor drivers started",
	})

	// driversStopped counts driver loops that exited, for any reason.
	driversStopped = promauto.NewCounter(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "actor_drivers_stopped",
		Help: "The total number of actor drivers stopped",
	})

	// aliveDrivers tracks drivers currently inside Run.
	aliveDrivers = promauto.NewGaugeVec(prometheus.GaugeOpts{ //nolint:gochecknoglobals
		Name: "actor_alive_drivers",
		Help: "The number of actor drivers currently running",
	}, []string{"subsystem", "actor"})

	// processedRequests counts requests dispatched by a driver.
	processedRequests = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "actor_processed_requests",
		Help: "The total number of requests processed by actor drivers",
	}, []string{"subsystem", "actor", "command"})

	// processingTime measures dispatch time, including the reply send.
	processingTime = promauto.NewHistogramVec(prometheus.HistogramOpts{ //nolint:gochecknoglobals
		Name:    "actor_processing_time",
		Help:    "The time spent dispatching a request and sending its reply",
		Buckets: latencyBuckets,
	}, []string{"subsystem", "actor", "command"})

	// submittedRequests counts requests issued through handles.
	submittedRequests = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "actor_submitted_requests",
		Help: "The total number of requests submitted through actor handles",
	}, []string{"subsystem", "actor", "command"})

	// roundTripTime measures a handle call from send to reply.
	roundTripTime = promauto.NewHistogramVec(prometheus.HistogramOpts{ //nolint:gochecknoglobals
		Name:    "actor_round_trip_time",
		Help:    "The time spent waiting for an actor to answer a request",
		Buckets: latencyBuckets,
	}, []string{"subsystem", "actor", "command"})

	// requestErrors counts failed handle calls by failure kind.
	requestErrors = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "actor_request_errors",
		Help: "The total number of actor handle calls that failed",
	}, []string{"subsystem", "actor", "reason"})
)

// errorReason maps an error to a low-cardinality metric label.
func errorReason(err error) string {
	switch {
	case errors.Is(err, channel.ErrChannelSend):
		return "send"
	case errors.Is(err, channel.ErrChannelSenderClosed):
		return "sender_closed"
	case errors.Is(err, channel.ErrChannelRecv):
		return "recv"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "context"
	case errors.Is(err, ErrUnknownCommand):
		return "unknown_command"
	default:
		return "other"
	}
}
