// Copyright (c) 2025 The Kinetix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/kinetixfi/kinetix-tokenomics/metrics"
)

var (
	metricTxCount       = metrics.LazyLoadCounterVec("runtime_tx_count", []string{"status"})
	metricMethodCount   = metrics.LazyLoadCounterVec("runtime_method_count", []string{"method"})
	metricExecutionTime = metrics.LazyLoadHistogram("runtime_tx_execution_ms", metrics.BucketExecution)
	// in permille
	metricSlotCacheHitRate = metrics.LazyLoadGauge("runtime_slot_cache_hit_rate")
)
