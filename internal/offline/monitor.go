package offline

import (
	"context"
	"log"
	"net"
	"sync"
	"time"
)

// ProbeFunc reports whether the network currently looks reachable. Probes
// are best-effort: a positive result does not guarantee the submission
// service itself is up.
type ProbeFunc func(ctx context.Context) bool

// DialProbe returns a ProbeFunc that attempts a TCP dial to addr with the
// given timeout. No application handshake is performed.
func DialProbe(addr string, timeout time.Duration) ProbeFunc {
	return func(ctx context.Context) bool {
		d := net.Dialer{Timeout: timeout}
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}
}

// Monitor watches connectivity and fires a callback on each offline-to-
// online transition. Rapid flapping can fire the callback while a previous
// invocation is still in flight; consumers must tolerate that.
type Monitor struct {
	probe    ProbeFunc
	interval time.Duration
	onOnline func()

	mu     sync.Mutex
	online bool

	stopCh    chan struct{}
	stopOnce  sync.Once
	isRunning bool
}

// NewMonitor creates a connectivity monitor. onOnline is invoked on each
// offline-to-online transition; it may be nil.
func NewMonitor(probe ProbeFunc, interval time.Duration, onOnline func()) *Monitor {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Monitor{
		probe:    probe,
		interval: interval,
		onOnline: onOnline,
		stopCh:   make(chan struct{}),
	}
}

// Start begins probing. The first probe runs immediately so Online reflects
// reality before the first tick.
func (m *Monitor) Start() {
	m.mu.Lock()
	if m.isRunning {
		m.mu.Unlock()
		return
	}
	m.isRunning = true
	m.mu.Unlock()

	m.check(true)

	log.Printf("[Monitor] Started - probe interval: %v", m.interval)
	go m.run()
}

func (m *Monitor) run() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.check(false)
		case <-m.stopCh:
			log.Printf("[Monitor] Stopped")
			return
		}
	}
}

// check runs one probe and handles the transition edge. initial suppresses
// the callback so a replay is not fired just because the agent started up
// online; the agent triggers its own startup replay.
func (m *Monitor) check(initial bool) {
	ctx, cancel := context.WithTimeout(context.Background(), m.interval)
	now := m.probe(ctx)
	cancel()

	m.mu.Lock()
	was := m.online
	m.online = now
	m.mu.Unlock()

	if initial {
		return
	}

	if !was && now {
		log.Printf("[Monitor] Connectivity restored")
		if m.onOnline != nil {
			go m.onOnline()
		}
	} else if was && !now {
		log.Printf("[Monitor] Connectivity lost")
	}
}

// Online reports the last observed connectivity state.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Stop halts probing.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopCh)
	})
}
