package connectivity

import (
	"context"
	"log/slog"
	"net"
	"time"
)

// DialProbe is the terminal's stand-in for a platform online/offline signal:
// the network is reachable when a TCP dial to Address succeeds.
type DialProbe struct {
	Address string
	Timeout time.Duration
	dialer  net.Dialer
}

func NewDialProbe(address string, timeout time.Duration) *DialProbe {
	return &DialProbe{Address: address, Timeout: timeout}
}

func (p *DialProbe) IsOnline() bool {
	return p.Check(context.Background())
}

func (p *DialProbe) Check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()
	conn, err := p.dialer.DialContext(ctx, "tcp", p.Address)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// ProbeWorker turns periodic probe results into edges pushed to the monitor.
// The monitor ignores repeated edges so only changes reach the presentation.
type ProbeWorker struct {
	probe    *DialProbe
	monitor  *Monitor
	interval time.Duration
	log      *slog.Logger
}

func NewProbeWorker(probe *DialProbe, monitor *Monitor, interval time.Duration, log *slog.Logger) *ProbeWorker {
	return &ProbeWorker{probe: probe, monitor: monitor, interval: interval, log: log}
}

// Run executes the main loop of the worker, probing the network every interval.
func (w *ProbeWorker) Run(ctx context.Context) error {
	w.log.Debug("Starting connectivity probe", "address", w.probe.Address, "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping connectivity probe")
			return nil
		case <-ticker.C:
			w.Tick(ctx)
		}
	}
}

// Tick probes once and forwards the result.
func (w *ProbeWorker) Tick(ctx context.Context) {
	now := time.Now().UTC()
	if w.probe.Check(ctx) {
		w.monitor.BecameReachable(now)
		return
	}
	w.monitor.BecameUnreachable(now)
}
