package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "teller_messages_total",
			Help: "Total transcript messages appended, by sender",
		},
		[]string{"sender"},
	)

	IntentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "teller_intents_total",
			Help: "Recognized intents by type",
		},
		[]string{"intent"},
	)

	HandoversTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "teller_handovers_total",
			Help: "Human handovers triggered, by reason",
		},
		[]string{"reason"},
	)

	RefusalsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "teller_refusals_total",
			Help: "Knowledge queries refused by the hallucination guard",
		},
	)

	TransfersFinalized = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "teller_transfers_finalized_total",
			Help: "Chat-initiated transfers handed to the review flow",
		},
	)
)
