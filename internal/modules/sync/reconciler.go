package sync

import (
	"context"
	"errors"
	"log"
	gosync "sync"
	"time"

	"dispocam/internal/adapter"
	"dispocam/internal/domain/photo"
	"dispocam/internal/offline"
)

// Reconciler drains the offline queue in the background: on a timer and on
// connectivity-regained kicks. Entries leave the queue one by one, only after
// their upload is confirmed, so overlapping runs and concurrent submits never
// lose or duplicate a capture.
type Reconciler struct {
	orch     *Orchestrator
	queue    Queue
	events   EventSink // optional
	interval time.Duration
	kick     chan struct{}

	mu gosync.Mutex // one drain at a time; extra triggers wait their turn
}

func NewReconciler(orch *Orchestrator, queue Queue, events EventSink, interval time.Duration) *Reconciler {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Reconciler{
		orch:     orch,
		queue:    queue,
		events:   events,
		interval: interval,
		kick:     make(chan struct{}, 1),
	}
}

// Notify requests an immediate drain, typically on a connectivity-regained
// event. Never blocks; a pending kick is enough.
func (r *Reconciler) Notify() {
	select {
	case r.kick <- struct{}{}:
	default:
	}
}

// Run drains until ctx is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-r.kick:
		}
		if _, err := r.DrainOnce(ctx); err != nil {
			log.Printf("reconciler: drain aborted: %v", err)
		}
	}
}

// DrainOnce retries the remote chain for every queued entry and removes the
// ones that synced. Returns how many entries were synced.
func (r *Reconciler) DrainOnce(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.queue.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	synced := 0
	for i := range entries {
		entry := entries[i]
		out, err := r.orch.submitRemote(ctx, captureFromEntry(&entry))
		if err != nil {
			if errors.Is(err, adapter.ErrQuotaExceeded) {
				// Cannot ever sync without exceeding the owner's limit.
				// Left in place so nothing is silently dropped.
				log.Printf("reconciler: entry seq=%d over quota, leaving queued", entry.Seq)
				continue
			}
			// Still unreachable; the next run will retry.
			continue
		}
		if err := r.queue.RemoveSynced(ctx, []offline.Entry{entry}); err != nil {
			log.Printf("reconciler: synced but could not dequeue seq=%d: %v", entry.Seq, err)
			continue
		}
		synced++
		log.Printf("reconciler: synced seq=%d photo_id=%s via %s", entry.Seq, out.Photo.ID, out.Origin)
		r.orch.recordLocally(ctx, out.Photo)
		if r.events != nil {
			r.events.PhotoSynced(out.Photo)
		}
	}
	return synced, nil
}

func captureFromEntry(e *offline.Entry) *photo.Capture {
	return &photo.Capture{
		CameraID:   e.CameraID,
		Bytes:      e.Payload,
		FileName:   e.FileName,
		MimeType:   e.MimeType,
		OwnerID:    e.OwnerID,
		OwnerName:  e.OwnerName,
		CapturedAt: e.CapturedAt,
	}
}
