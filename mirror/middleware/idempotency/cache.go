package idempotency

import (
	"time"

	"encore.dev/storage/cache"

	"github.com/webhookdb/mirror/mirror/model"
)

// DeliveryCluster is the cache cluster for delivery de-duplication
var DeliveryCluster = cache.NewCluster("delivery-cluster", cache.ClusterConfig{
	EvictionPolicy: cache.AllKeysLRU,
})

// DeliveryCache is the keyspace for storing delivery state
var DeliveryCache = cache.NewStructKeyspace[model.DeliveryKey, model.DeliveryCacheEntry](
	DeliveryCluster,
	cache.KeyspaceConfig{
		KeyPattern:    "delivery/:Source/:ID",
		DefaultExpiry: cache.ExpireIn(24 * time.Hour),
	},
)
