package server

import (
	"fmt"
	"sort"
	"time"

	"github.com/ValentinKolb/kvprefs/rpc/common"
	"github.com/VictoriaMetrics/metrics"
	gometrics "github.com/rcrowley/go-metrics"
)

// countRequest accounts a handled request in the default VictoriaMetrics set,
// which is what the http transport exposes on /metrics
func countRequest(channel string, msgType common.MessageType, failed bool) {
	metrics.GetOrCreateCounter(fmt.Sprintf(`kvprefs_rpc_requests_total{channel=%q,type=%q}`, channel, msgType)).Inc()
	if failed {
		metrics.GetOrCreateCounter(fmt.Sprintf(`kvprefs_rpc_errors_total{channel=%q,type=%q}`, channel, msgType)).Inc()
	}
}

// timer returns the latency timer of a request type on a channel
func (s *RPCServer) timer(channel string, msgType common.MessageType) gometrics.Timer {
	return gometrics.GetOrRegisterTimer(channel+"."+msgType.String(), s.timers)
}

// logMetrics logs a latency summary of every request type until the server is closed
func (s *RPCServer) logMetrics(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			for _, line := range s.metricsSummary() {
				Logger.Infof("%s", line)
			}
		}
	}
}

// metricsSummary formats one line per timer, sorted by name
func (s *RPCServer) metricsSummary() []string {
	var lines []string
	s.timers.Each(func(name string, i interface{}) {
		t, ok := i.(gometrics.Timer)
		if !ok {
			return
		}
		snap := t.Snapshot()
		lines = append(lines, fmt.Sprintf("%-50s count=%d mean=%s p99=%s rate1=%.2f/s",
			name,
			snap.Count(),
			time.Duration(snap.Mean()),
			time.Duration(snap.Percentile(0.99)),
			snap.Rate1(),
		))
	})
	sort.Strings(lines)
	return lines
}
