package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	webslayer = "webslayer"

	// Labels
	operationLabel = "operation"
	outcomeLabel   = "outcome"
	statusLabel    = "status"
	stateLabel     = "state"
	methodLabel    = "method"
	routeLabel     = "route"
	codeLabel      = "code"
)

var backendRequestsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: webslayer,
		Name:      "backend_requests_total",
		Help:      "number of requests made to the scraping backend",
	},
	[]string{operationLabel, outcomeLabel},
)

var jobPollsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: webslayer,
		Name:      "job_polls_total",
		Help:      "number of job status fetches by reported status",
	},
	[]string{statusLabel},
)

var jobsFinishedTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: webslayer,
		Name:      "jobs_finished_total",
		Help:      "number of tracked jobs reaching a terminal state",
	},
	[]string{stateLabel},
)

var jobsSubmittedTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: webslayer,
		Name:      "jobs_submitted_total",
		Help:      "number of job submissions by outcome",
	},
	[]string{outcomeLabel},
)

var reportCacheTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: webslayer,
		Name:      "report_cache_total",
		Help:      "report cache lookups by outcome",
	},
	[]string{outcomeLabel},
)

var httpRequestsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: webslayer,
		Name:      "http_requests_total",
		Help:      "number of dashboard HTTP requests",
	},
	[]string{methodLabel, routeLabel, codeLabel},
)

// IncreaseBackendRequests counts one backend call; outcome is "ok" or an
// error type.
func IncreaseBackendRequests(operation, outcome string) {
	backendRequestsTotalMetric.With(prometheus.Labels{
		operationLabel: operation,
		outcomeLabel:   outcome,
	}).Inc()
}

func IncreaseJobPolls(status string) {
	jobPollsTotalMetric.With(prometheus.Labels{statusLabel: status}).Inc()
}

func IncreaseJobsFinished(state string) {
	jobsFinishedTotalMetric.With(prometheus.Labels{stateLabel: state}).Inc()
}

func IncreaseJobsSubmitted(outcome string) {
	jobsSubmittedTotalMetric.With(prometheus.Labels{outcomeLabel: outcome}).Inc()
}

// IncreaseReportCache counts a lookup; outcome is "hit", "miss" or "error".
func IncreaseReportCache(outcome string) {
	reportCacheTotalMetric.With(prometheus.Labels{outcomeLabel: outcome}).Inc()
}

func IncreaseHTTPRequests(method, route string, code int) {
	httpRequestsTotalMetric.With(prometheus.Labels{
		methodLabel: method,
		routeLabel:  route,
		codeLabel:   strconv.Itoa(code),
	}).Inc()
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	prometheus.MustRegister(backendRequestsTotalMetric)
	prometheus.MustRegister(jobPollsTotalMetric)
	prometheus.MustRegister(jobsFinishedTotalMetric)
	prometheus.MustRegister(jobsSubmittedTotalMetric)
	prometheus.MustRegister(reportCacheTotalMetric)
	prometheus.MustRegister(httpRequestsTotalMetric)
}
