// Package connectivity tracks network reachability from platform signals and
// derives the state of the online/offline banner.
package connectivity

import (
	"afya-chat/contract"
	"afya-chat/domain/event"
	"log/slog"
	"sync"
	"time"
)

// DefaultBannerWindow is how long the online banner stays expanded.
const DefaultBannerWindow = 3 * time.Second

type State struct {
	Reachable        bool
	LastTransitionAt time.Time
}

// Monitor is a two-state machine driven only by pushed transitions.
type Monitor struct {
	mu     sync.Mutex
	log    *slog.Logger
	events chan<- event.DomainEvent
	window time.Duration

	state      State
	banner     Banner
	timer      *time.Timer
	generation uint64
	closed     bool
}

// NewMonitor reads the initial reachability from signal. A nil signal means reachable.
func NewMonitor(signal contract.ConnectivitySignal, window time.Duration, events chan<- event.DomainEvent, log *slog.Logger) *Monitor {
	if log == nil {
		log = slog.Default()
	}
	if window <= 0 {
		window = DefaultBannerWindow
	}
	reachable := signal == nil || signal.IsOnline()
	return &Monitor{
		log:    log,
		events: events,
		window: window,
		state:  State{Reachable: reachable, LastTransitionAt: time.Now().UTC()},
		banner: Banner{Mode: BannerHidden, Reachable: reachable},
	}
}

func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Monitor) Banner() Banner {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.banner
}

// BecameReachable records an offline -> online edge. Repeated edges are ignored
// and reported as false.
func (m *Monitor) BecameReachable(at time.Time) bool {
	m.mu.Lock()
	if m.closed || m.state.Reachable {
		m.mu.Unlock()
		return false
	}
	m.state = State{Reachable: true, LastTransitionAt: at}
	banner := m.expandLocked(true)
	m.mu.Unlock()

	m.log.Info("Network reachable", "at", at)
	event.Publish(m.events, event.BecameReachable{At: at}, m.log)
	m.publishBanner(banner, at)
	return true
}

// BecameUnreachable records an online -> offline edge. The banner stays
// expanded until the network comes back.
func (m *Monitor) BecameUnreachable(at time.Time) bool {
	m.mu.Lock()
	if m.closed || !m.state.Reachable {
		m.mu.Unlock()
		return false
	}
	m.state = State{Reachable: false, LastTransitionAt: at}
	banner := m.expandLocked(false)
	m.mu.Unlock()

	m.log.Warn("Network unreachable", "at", at)
	event.Publish(m.events, event.BecameUnreachable{At: at}, m.log)
	m.publishBanner(banner, at)
	return true
}

// Show is called when the banner first becomes visible.
func (m *Monitor) Show() Banner {
	m.mu.Lock()
	if m.closed || m.banner.Mode != BannerHidden {
		banner := m.banner
		m.mu.Unlock()
		return banner
	}
	banner := m.expandLocked(m.state.Reachable)
	m.mu.Unlock()

	m.publishBanner(banner, time.Now().UTC())
	return banner
}

// Toggle flips the banner between expanded and collapsed. A manual expand
// cancels the pending auto-collapse, so the banner stays until toggled again.
func (m *Monitor) Toggle() Banner {
	m.mu.Lock()
	if m.closed {
		banner := m.banner
		m.mu.Unlock()
		return banner
	}
	if m.banner.Mode == BannerExpanded {
		m.banner.Mode = BannerCollapsed
	} else {
		m.stopTimerLocked()
		m.banner.Mode = BannerExpanded
	}
	banner := m.banner
	m.mu.Unlock()

	m.publishBanner(banner, time.Now().UTC())
	return banner
}

// Close stops the auto-collapse timer.
func (m *Monitor) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.stopTimerLocked()
}

// expandLocked expands the banner. Online banners get a fresh auto-collapse
// timer, offline ones are persistent.
func (m *Monitor) expandLocked(reachable bool) Banner {
	m.stopTimerLocked()
	m.banner = Banner{Mode: BannerExpanded, Reachable: reachable, Persistent: !reachable}
	if reachable {
		generation := m.generation
		m.timer = time.AfterFunc(m.window, func() { m.collapse(generation) })
	}
	return m.banner
}

func (m *Monitor) stopTimerLocked() {
	m.generation++
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

// collapse is idempotent and ignores timers armed before a later transition.
func (m *Monitor) collapse(generation uint64) {
	m.mu.Lock()
	if m.closed || generation != m.generation || !m.state.Reachable {
		m.mu.Unlock()
		return
	}
	m.timer = nil
	if m.banner.Mode != BannerExpanded {
		m.mu.Unlock()
		return
	}
	m.banner.Mode = BannerCollapsed
	banner := m.banner
	m.mu.Unlock()

	m.publishBanner(banner, time.Now().UTC())
}

func (m *Monitor) publishBanner(b Banner, at time.Time) {
	event.Publish(m.events, event.BannerChanged{Mode: string(b.Mode), Reachable: b.Reachable, At: at}, m.log)
}
