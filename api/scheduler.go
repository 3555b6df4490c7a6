/*
scheduler.go - Periodic directory snapshots

PURPOSE:
  Periodically exports the whole collection (no search, no filters, ordered
  by id) into the blob store, so there is always a recent copy of the
  directory next to the user-initiated exports.

DESIGN:
  - Runs a background goroutine with a configurable interval
  - Runs once immediately on start
  - Skips a tick when the store version has not moved since the last
    successful snapshot
  - Snapshots are written with the handler's exporter, so they land under
    exports/<uuid>/ like any other export and show up in GET /api/exports

USAGE:
  scheduler := NewSnapshotScheduler(handler, export.FormatCSV, time.Hour)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - session.go: SessionExport (user-initiated export into the same store)
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/warp/employee-directory/directory"
	"github.com/warp/employee-directory/export"
)

// SnapshotScheduler exports the full directory on a fixed interval.
type SnapshotScheduler struct {
	Handler  *Handler
	Format   export.Format
	Interval time.Duration

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex

	// runMu guards the fields below.
	runMu   sync.Mutex
	taken   bool
	version uint64
	last    export.Receipt
}

// NewSnapshotScheduler creates a scheduler. It does nothing until Start.
func NewSnapshotScheduler(h *Handler, format export.Format, interval time.Duration) *SnapshotScheduler {
	return &SnapshotScheduler{
		Handler:  h,
		Format:   format,
		Interval: interval,
	}
}

// Start begins the scheduler. A non-positive interval leaves it disabled.
func (ss *SnapshotScheduler) Start() {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	log := ss.Handler.log
	if ss.Interval <= 0 {
		log.Info().Msg("snapshot scheduler disabled")
		return
	}
	if ss.ticker != nil {
		return
	}

	ss.ticker = time.NewTicker(ss.Interval)
	ss.stop = make(chan struct{})
	ss.wg.Add(1)
	go ss.run()

	log.Info().Dur("interval", ss.Interval).Str("format", string(ss.Format)).Msg("snapshot scheduler started")
}

// Stop stops the scheduler and waits for an in-flight snapshot.
func (ss *SnapshotScheduler) Stop() {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if ss.ticker == nil {
		return
	}
	ss.ticker.Stop()
	close(ss.stop)
	ss.wg.Wait()
	ss.ticker = nil
	ss.Handler.log.Info().Msg("snapshot scheduler stopped")
}

func (ss *SnapshotScheduler) run() {
	defer ss.wg.Done()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-ss.stop
		cancel()
	}()

	// Run immediately on start
	ss.snapshot(ctx)

	for {
		select {
		case <-ss.ticker.C:
			ss.snapshot(ctx)
		case <-ss.stop:
			return
		}
	}
}

// RunNow takes a snapshot immediately, unless nothing changed since the
// last one. It reports whether a snapshot was written.
func (ss *SnapshotScheduler) RunNow(ctx context.Context) (export.Receipt, bool, error) {
	return ss.snapshotOnce(ctx)
}

func (ss *SnapshotScheduler) snapshot(ctx context.Context) {
	receipt, written, err := ss.snapshotOnce(ctx)
	log := ss.Handler.log
	switch {
	case err != nil:
		log.Error().Err(err).Msg("snapshot failed")
	case !written:
		log.Debug().Msg("snapshot skipped, directory unchanged")
	default:
		log.Info().Str("key", receipt.Key).Int("rows", receipt.Rows).Msg("snapshot stored")
	}
}

func (ss *SnapshotScheduler) snapshotOnce(ctx context.Context) (export.Receipt, bool, error) {
	ss.runMu.Lock()
	defer ss.runMu.Unlock()

	snap := ss.Handler.store.Snapshot()
	if ss.taken && snap.Version == ss.version {
		return ss.last, false, nil
	}

	records, err := directory.Sort(snap.Records, directory.SortConfig{Field: directory.SortID, Direction: directory.Ascending})
	if err != nil {
		return export.Receipt{}, false, err
	}
	receipt, err := ss.Handler.exporter.Export(ctx, records, ss.Format)
	if err != nil {
		return export.Receipt{}, false, err
	}

	ss.taken = true
	ss.version = snap.Version
	ss.last = receipt
	ss.Handler.metrics.exported(string(ss.Format), "snapshot")
	return receipt, true, nil
}
