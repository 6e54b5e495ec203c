package channel

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// channelsCreated counts channels built through a family.
	channelsCreated = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "channel_created",
		Help: "The total number of channels created",
	}, []string{"substrate"})

	// valuesSent counts values accepted by Send.
	valuesSent = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "channel_values_sent",
		Help: "The total number of values enqueued",
	}, []string{"substrate"})

	// valuesReceived counts values handed out by Recv.
	valuesReceived = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "channel_values_received",
		Help: "The total number of values dequeued",
	}, []string{"substrate"})

	// valuesDiscarded counts values dropped because the receiver was closed.
	valuesDiscarded = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "channel_values_discarded",
		Help: "The total number of queued values discarded on receiver close",
	}, []string{"substrate"})

	// tasksSpawned counts tasks started through Substrate.Spawn.
	tasksSpawned = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "channel_tasks_spawned",
		Help: "The total number of tasks spawned on a substrate",
	}, []string{"substrate"})
)

// Instruments is the set of metrics a binding updates, pre-labeled with its substrate name.
type Instruments struct {
	Created   prometheus.Counter
	Sent      prometheus.Counter
	Received  prometheus.Counter
	Discarded prometheus.Counter
	Spawned   prometheus.Counter
}

// InstrumentsFor returns the metrics for the named substrate.
func InstrumentsFor(substrate string) Instruments {
	return Instruments{
		Created:   channelsCreated.WithLabelValues(substrate),
		Sent:      valuesSent.WithLabelValues(substrate),
		Received:  valuesReceived.WithLabelValues(substrate),
		Discarded: valuesDiscarded.WithLabelValues(substrate),
		Spawned:   tasksSpawned.WithLabelValues(substrate),
	}
}
