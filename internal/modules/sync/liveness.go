package sync

import (
	"context"
	"log"
	"sync/atomic"
	"time"
)

// Pinger probes the RPC backend. The RPC adapter implements it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker keeps a process-wide view of RPC reachability by probing on
// an interval. It implements LivenessPort and kicks a callback on the
// unreachable-to-reachable transition so the reconciler can drain promptly.
type HealthChecker struct {
	pinger    Pinger
	interval  time.Duration
	reachable atomic.Bool
	onRegain  func()
}

func NewHealthChecker(pinger Pinger, interval time.Duration, onRegain func()) *HealthChecker {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &HealthChecker{pinger: pinger, interval: interval, onRegain: onRegain}
}

func (h *HealthChecker) IsRPCReachable() bool {
	return h.reachable.Load()
}

// Run probes until ctx is cancelled. The first probe happens immediately.
func (h *HealthChecker) Run(ctx context.Context) {
	h.probe(ctx)
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.probe(ctx)
		}
	}
}

func (h *HealthChecker) probe(ctx context.Context) {
	err := h.pinger.Ping(ctx)
	now := err == nil
	was := h.reachable.Swap(now)
	if was != now {
		log.Printf("liveness: rpc reachable=%t", now)
	}
	if !was && now && h.onRegain != nil {
		h.onRegain()
	}
}
