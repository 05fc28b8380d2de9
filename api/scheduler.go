/*
scheduler.go - Periodic profile and override reload

PURPOSE:
  Admin writes refresh the cache of the process that served them. When more
  than one server process shares the database file, the others pick the
  change up on the next tick of this scheduler.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Reloads only when the stored profile versions or override set changed
  - A failed reload keeps the previous cache and is retried next tick

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 minute)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewRefreshScheduler(handler)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: refresh, called after admin writes
*/
package api

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"
)

// RefreshScheduler reloads the handler's profile cache in the background.
type RefreshScheduler struct {
	Handler       *Handler
	CheckInterval time.Duration
	Enabled       bool

	ticker      *time.Ticker
	stop        chan struct{}
	wg          sync.WaitGroup
	mu sync.Mutex

	// checkMu serializes Check between the ticker and direct callers.
	checkMu     sync.Mutex
	fingerprint string
}

// NewRefreshScheduler creates a new scheduler.
func NewRefreshScheduler(h *Handler) *RefreshScheduler {
	return &RefreshScheduler{
		Handler:       h,
		CheckInterval: time.Minute,
		Enabled:       true,
	}
}

// Start begins the scheduler.
func (rs *RefreshScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if !rs.Enabled || rs.CheckInterval <= 0 {
		log.Println("[Refresh] Disabled, not starting")
		return
	}
	if rs.ticker != nil {
		return
	}

	rs.ticker = time.NewTicker(rs.CheckInterval)
	rs.stop = make(chan struct{})
	rs.wg.Add(1)

	go rs.run(rs.ticker, rs.stop)

	log.Printf("[Refresh] Started with check interval: %v", rs.CheckInterval)
}

// Stop stops the scheduler and waits for a running check to finish.
func (rs *RefreshScheduler) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.ticker != nil {
		rs.ticker.Stop()
		close(rs.stop)
		rs.wg.Wait()
		rs.ticker = nil
		log.Println("[Refresh] Stopped")
	}
}

func (rs *RefreshScheduler) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer rs.wg.Done()

	for {
		select {
		case <-ticker.C:
			if _, err := rs.Check(context.Background()); err != nil {
				log.Printf("[Refresh] Error: %v", err)
			}
		case <-stop:
			return
		}
	}
}

// Check reloads the cache if the store changed since the last check and
// reports whether it did.
func (rs *RefreshScheduler) Check(ctx context.Context) (bool, error) {
	rs.checkMu.Lock()
	defer rs.checkMu.Unlock()

	fp, err := rs.storeFingerprint(ctx)
	if err != nil {
		return false, err
	}
	if fp == rs.fingerprint {
		return false, nil
	}
	if err := rs.Handler.refresh(ctx); err != nil {
		return false, err
	}
	if rs.fingerprint != "" {
		log.Printf("[Refresh] Configuration changed, cache reloaded")
	}
	rs.fingerprint = fp
	return true, nil
}

// storeFingerprint summarizes profile versions and the override rows.
func (rs *RefreshScheduler) storeFingerprint(ctx context.Context) (string, error) {
	store := rs.Handler.Store
	profiles, err := store.ListProfiles(ctx)
	if err != nil {
		return "", err
	}
	overrides, err := store.ListOverrides(ctx)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(profiles)+len(overrides))
	for _, p := range profiles {
		parts = append(parts, fmt.Sprintf("p|%s|%d", p.Variant, p.Version))
	}
	for _, o := range overrides {
		parts = append(parts, fmt.Sprintf("o|%s|%s|%s|%d", o.ID, o.Site, o.EmployeeID, o.CutoffHour))
	}
	sort.Strings(parts)
	return strings.Join(parts, ";"), nil
}
