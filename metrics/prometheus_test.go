// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dto "github.com/prometheus/client_model/go"
)

func gather(t *testing.T) map[string]*dto.MetricFamily {
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	out := make(map[string]*dto.MetricFamily)
	for _, mf := range families {
		out[mf.GetName()] = mf
	}
	return out
}

func TestPromMetrics(t *testing.T) {
	InitializePrometheusMetrics()
	assert.False(t, NoOp())

	Counter("votes").Add(2)
	Counter("votes").Add(3)

	txs := CounterVec("txs", []string{"method", "status"})
	txs.AddWithLabel(1, map[string]string{"method": "vote", "status": "ok"})
	txs.AddWithLabel(1, map[string]string{"method": "vote", "status": "reverted"})
	txs.AddWithLabel(4, map[string]string{"method": "claim", "status": "ok"})

	head := Gauge("head")
	head.Set(10)
	head.Add(2)

	Histogram("exec", BucketExecution).Observe(120)
	HistogramVec("req", []string{"route"}, BucketHTTPReqs).ObserveWithLabels(7, map[string]string{"route": "/voter"})

	families := gather(t)
	assert.Equal(t, float64(5), families["kinetix_votes"].Metric[0].GetCounter().GetValue())

	var total float64
	for _, m := range families["kinetix_txs"].Metric {
		total += m.GetCounter().GetValue()
	}
	assert.Equal(t, float64(6), total)
	assert.Len(t, families["kinetix_txs"].Metric, 3)

	assert.Equal(t, float64(12), families["kinetix_head"].Metric[0].GetGauge().GetValue())
	assert.Equal(t, float64(120), families["kinetix_exec"].Metric[0].GetHistogram().GetSampleSum())
	assert.Equal(t, float64(7), families["kinetix_req"].Metric[0].GetHistogram().GetSampleSum())
}

func TestLazyLoading(t *testing.T) {
	metrics = defaultNoopMetrics()

	for _, a := range []any{
		Gauge("noopGauge"),
		Counter("noopCounter"),
		CounterVec("noopCounter", nil),
		Histogram("noopHist", nil),
		HistogramVec("noopHist", nil, nil),
	} {
		require.IsType(t, noopMetric{}, a)
	}

	lazyGauge := LazyLoadGauge("lazyGauge")
	lazyCounter := LazyLoadCounter("lazyCounter")
	lazyCounterVec := LazyLoadCounterVec("lazyCounterVec", nil)
	lazyHistogram := LazyLoadHistogram("lazyHistogram", nil)
	lazyHistogramVec := LazyLoadHistogramVec("lazyHistogramVec", nil, nil)

	// meters resolve the provider on first use
	InitializePrometheusMetrics()

	require.IsType(t, &promGaugeMeter{}, lazyGauge())
	require.IsType(t, &promCountMeter{}, lazyCounter())
	require.IsType(t, &promCountVecMeter{}, lazyCounterVec())
	require.IsType(t, &promHistogramMeter{}, lazyHistogram())
	require.IsType(t, &promHistogramVecMeter{}, lazyHistogramVec())
}
