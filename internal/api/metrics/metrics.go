// Package metrics defines the custom Prometheus collectors of the catalog API.
// They register with the default registry on import; HTTP request metrics are
// produced separately by the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "catalog"

// AuthAttemptsTotal counts login and registration outcomes.
// Labels:
//   - operation: "login" or "register"
//   - result: "success", "invalid_credentials", "conflict", "invalid", "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of login and registration attempts by outcome.",
	},
	[]string{"operation", "result"},
)

// AuthRejectionsTotal counts requests rejected by the identity middleware or the role guard.
// Label:
//   - reason: "missing_header", "malformed_header", "expired", "invalid_token",
//     "unknown_user", "unresolved", "forbidden"
var AuthRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_rejections_total",
		Help:      "Total number of requests rejected during authentication or authorization.",
	},
	[]string{"reason"},
)

// ProductsCreatedTotal counts successful POST /products; replays carry replayed="true".
var ProductsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "products_created_total",
		Help:      "Total number of products created.",
	},
	[]string{"replayed"},
)

var ProductsDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "products_deleted_total",
		Help:      "Total number of products deleted.",
	},
)
