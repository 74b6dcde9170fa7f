// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import "github.com/kinetixfi/kinetix-tokenomics/metrics"

var metricTxSendCount = metrics.LazyLoadCounterVec("api_tx_send_count", []string{"status"})
