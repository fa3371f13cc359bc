// Package connectivity feeds the ConnectivityMonitor from a periodic HTTP
// reachability probe against the wayfinding API.
package connectivity

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"wayfind/application/services"
)

// HTTPProbe checks reachability of the API's health endpoint.
type HTTPProbe struct {
	url        string
	httpClient *http.Client
}

// NewHTTPProbe creates a probe against baseURL's health endpoint.
func NewHTTPProbe(baseURL string, timeout time.Duration) *HTTPProbe {
	return &HTTPProbe{
		url:        baseURL + "/health",
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Check implements ports.ReachabilityProbe. Any HTTP response counts as
// reachable; only transport failure means offline.
func (p *HTTPProbe) Check(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.url, nil)
	if err != nil {
		return false
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}

// Prober drives a ConnectivityMonitor from periodic probe checks.
type Prober struct {
	probe    *HTTPProbe
	monitor  *services.ConnectivityMonitor
	interval time.Duration
	logger   *zap.Logger
}

// NewProber creates a prober updating monitor every interval.
func NewProber(probe *HTTPProbe, monitor *services.ConnectivityMonitor, interval time.Duration, logger *zap.Logger) *Prober {
	return &Prober{
		probe:    probe,
		monitor:  monitor,
		interval: interval,
		logger:   logger,
	}
}

// Run probes until ctx is cancelled. It performs one immediate check so
// the monitor starts from an observed state rather than an assumed one.
func (p *Prober) Run(ctx context.Context) {
	p.monitor.SetOnline(p.probe.Check(ctx))

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.monitor.SetOnline(p.probe.Check(ctx))
		case <-ctx.Done():
			p.logger.Debug("Connectivity prober stopped")
			return
		}
	}
}
