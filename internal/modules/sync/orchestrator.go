package sync

import (
	"context"
	"errors"
	"fmt"
	"log"

	"dispocam/internal/adapter"
	"dispocam/internal/domain/camera"
	"dispocam/internal/domain/photo"
	"dispocam/internal/offline"
	"dispocam/internal/pkg/ident"
)

// Orchestrator is the upload decision procedure: try the RPC backend, then
// the direct data-client, then park the capture in the offline queue. A
// capture is never lost; only a failed local enqueue surfaces as ErrFatal.
type Orchestrator struct {
	rpc       adapter.Adapter // nil when no RPC backend is configured
	direct    adapter.Adapter // nil when no direct client is configured
	guarantor *Guarantor
	queue     Queue
	cache     CameraCache
	photos    PhotoCache // optional
	liveness  LivenessPort
	events    EventSink // optional
}

type OrchestratorDeps struct {
	RPC      adapter.Adapter
	Direct   adapter.Adapter
	Queue    Queue
	Cache    CameraCache
	Photos   PhotoCache
	Liveness LivenessPort
	Events   EventSink
}

func NewOrchestrator(deps OrchestratorDeps) *Orchestrator {
	liveness := deps.Liveness
	if liveness == nil {
		liveness = StaticLiveness(true)
	}
	return &Orchestrator{
		rpc:       deps.RPC,
		direct:    deps.Direct,
		guarantor: NewGuarantor(),
		queue:     deps.Queue,
		cache:     deps.Cache,
		photos:    deps.Photos,
		liveness:  liveness,
		events:    deps.Events,
	}
}

// strategy is one link of the fallback chain.
type strategy struct {
	origin photo.Origin
	target adapter.Adapter
}

// Submit persists one capture. Every remote failure is demoted to "try next
// option"; the offline queue is the guaranteed terminal path. Only
// adapter.ErrQuotaExceeded and ErrFatal ever reach the caller.
func (o *Orchestrator) Submit(ctx context.Context, c *photo.Capture) (*photo.Outcome, error) {
	out, err := o.submitRemote(ctx, c)
	if err == nil {
		o.recordLocally(ctx, out.Photo)
		if o.events != nil {
			o.events.PhotoStored(out.Photo)
		}
		return out, nil
	}
	if errors.Is(err, adapter.ErrQuotaExceeded) {
		// Spilling into the offline queue would silently let the owner
		// exceed their limit.
		return nil, err
	}

	entry := entryFromCapture(c)
	if qerr := o.queue.Enqueue(ctx, entry); qerr != nil {
		return nil, fmt.Errorf("%w: %v", ErrFatal, qerr)
	}
	log.Printf("orchestrator: capture parked offline camera_id=%s photo_id=%s reason=%v", c.CameraID, entry.PhotoID, err)

	p := PhotoView(entry)
	if o.events != nil {
		o.events.PhotoStored(p)
	}
	return &photo.Outcome{Origin: photo.OriginOffline, Photo: p}, nil
}

// submitRemote walks the remote links of the chain in priority order and
// returns the first success. Shared by Submit and the background reconciler.
func (o *Orchestrator) submitRemote(ctx context.Context, c *photo.Capture) (*photo.Outcome, error) {
	strategies := make([]strategy, 0, 2)
	if o.rpc != nil && o.liveness.IsRPCReachable() {
		strategies = append(strategies, strategy{photo.OriginRPC, o.rpc})
	}
	if o.direct != nil {
		strategies = append(strategies, strategy{photo.OriginDirect, o.direct})
	}

	lastErr := fmt.Errorf("%w: no remote target configured", adapter.ErrUnreachable)
	for _, s := range strategies {
		p, err := o.uploadVia(ctx, s.target, c)
		if err == nil {
			p.Origin = s.origin
			return &photo.Outcome{Origin: s.origin, Photo: p}, nil
		}
		if errors.Is(err, adapter.ErrQuotaExceeded) {
			return nil, err
		}
		log.Printf("orchestrator: %s path failed camera_id=%s: %v", s.target.Name(), c.CameraID, err)
		lastErr = err
	}
	return nil, lastErr
}

func (o *Orchestrator) uploadVia(ctx context.Context, a adapter.Adapter, c *photo.Capture) (*photo.Photo, error) {
	var fallback *camera.Camera
	if o.cache != nil {
		if cached, err := o.cache.FindByID(ctx, c.CameraID); err == nil {
			fallback = cached
		}
	}
	if _, err := o.guarantor.EnsureExists(ctx, a, c.CameraID, fallback); err != nil {
		return nil, err
	}
	return a.UploadPhoto(ctx, &adapter.UploadRequest{
		CameraID:   c.CameraID,
		Bytes:      c.Bytes,
		FileName:   c.FileName,
		MimeType:   c.MimeType,
		OwnerID:    c.OwnerID,
		OwnerName:  c.OwnerName,
		CapturedAt: c.CapturedAt,
	})
}

func (o *Orchestrator) recordLocally(ctx context.Context, p *photo.Photo) {
	if o.photos == nil {
		return
	}
	if err := o.photos.Save(ctx, p); err != nil {
		// Cache only: the remote copy is authoritative, the gallery merge
		// will pick it up from there.
		log.Printf("orchestrator: local photo cache save failed photo_id=%s: %v", p.ID, err)
	}
}

// PhotoView is the gallery-facing shape of a queued entry. The queue row owns
// the bytes, so the view points at it with a local URI.
func PhotoView(e *offline.Entry) *photo.Photo {
	return &photo.Photo{
		ID:         e.PhotoID,
		CameraID:   e.CameraID,
		OwnerID:    e.OwnerID,
		OwnerName:  e.OwnerName,
		FileName:   e.FileName,
		LocalURI:   "offline://" + e.PhotoID,
		UploadedAt: e.CapturedAt,
		MimeType:   e.MimeType,
		ByteSize:   e.ByteSize,
		Origin:     photo.OriginOffline,
	}
}

func entryFromCapture(c *photo.Capture) *offline.Entry {
	photoID := ident.NewPhotoID(c.CameraID)
	fileName := c.FileName
	if fileName == "" {
		fileName = photoID + ".jpg"
	}
	return &offline.Entry{
		PhotoID:    photoID,
		CameraID:   c.CameraID,
		OwnerID:    c.OwnerID,
		OwnerName:  c.OwnerName,
		FileName:   fileName,
		Payload:    c.Bytes,
		MimeType:   c.MimeType,
		ByteSize:   int64(len(c.Bytes)),
		CapturedAt: c.CapturedAt,
	}
}
