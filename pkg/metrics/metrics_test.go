package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(jobPollsTotalMetric.WithLabelValues("pending"))
	IncreaseJobPolls("pending")
	IncreaseJobPolls("pending")
	assert.Equal(t, before+2, testutil.ToFloat64(jobPollsTotalMetric.WithLabelValues("pending")))

	before = testutil.ToFloat64(reportCacheTotalMetric.WithLabelValues("hit"))
	IncreaseReportCache("hit")
	assert.Equal(t, before+1, testutil.ToFloat64(reportCacheTotalMetric.WithLabelValues("hit")))

	before = testutil.ToFloat64(httpRequestsTotalMetric.WithLabelValues("GET", "/health", "200"))
	IncreaseHTTPRequests("GET", "/health", 200)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequestsTotalMetric.WithLabelValues("GET", "/health", "200")))
}
