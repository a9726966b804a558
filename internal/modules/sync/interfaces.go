package sync

import (
	"context"

	"dispocam/internal/domain/camera"
	"dispocam/internal/domain/photo"
	"dispocam/internal/offline"
)

// Queue is the durable offline store consumed by the orchestrator and the
// reconciler.
type Queue interface {
	Enqueue(ctx context.Context, e *offline.Entry) error
	ListAll(ctx context.Context) ([]offline.Entry, error)
	RemoveSynced(ctx context.Context, entries []offline.Entry) error
}

// CameraCache is the on-device camera cache the guarantor pulls fallback
// specs from.
type CameraCache interface {
	FindByID(ctx context.Context, id string) (*camera.Camera, error)
	Add(ctx context.Context, c *camera.Camera) error
}

// PhotoCache records successful upload outcomes locally so the gallery can
// render without a round trip.
type PhotoCache interface {
	Save(ctx context.Context, p *photo.Photo) error
}

// LivenessPort answers whether the RPC backend is currently believed
// reachable. Injected so tests can flip reachability deterministically.
type LivenessPort interface {
	IsRPCReachable() bool
}

// StaticLiveness is a fixed LivenessPort, used by one-shot tools and tests.
type StaticLiveness bool

func (s StaticLiveness) IsRPCReachable() bool { return bool(s) }

// EventSink receives persistence events for live gallery updates. All
// methods must be non-blocking.
type EventSink interface {
	PhotoStored(p *photo.Photo)
	PhotoSynced(p *photo.Photo)
}
