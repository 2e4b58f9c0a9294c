package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MintBatches counts mint calls by outcome: ok, or the failing error
	// kind (replay, authorization, ...).
	MintBatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cubevault",
		Name:      "mint_batches_total",
		Help:      "Mint batch submissions by outcome.",
	}, []string{"outcome"})

	CubesMinted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cubevault",
		Name:      "cubes_minted_total",
		Help:      "Completion tokens minted.",
	})

	QuestsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cubevault",
		Name:      "quests_created_total",
		Help:      "Quests added to the registry.",
	})

	Withdrawals = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cubevault",
		Name:      "withdrawals_total",
		Help:      "Successful treasury withdrawals.",
	})
)
