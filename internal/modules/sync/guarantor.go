package sync

import (
	"context"
	"errors"
	"fmt"
	"log"

	"dispocam/internal/adapter"
	"dispocam/internal/domain/camera"
	"dispocam/internal/pkg/retry"
)

// Guarantor makes sure a camera referenced by an upload exists remotely
// before the upload proceeds, creating it from the local cache spec when the
// remote side has never seen it.
type Guarantor struct {
	refetch retry.Config
}

func NewGuarantor() *Guarantor {
	return &Guarantor{refetch: retry.Confirm}
}

// EnsureExists returns the remote camera record, creating it with the SAME id
// when missing so photos already referencing the id stay valid. A creation
// race (someone else inserted the id first) satisfies the contract and is
// resolved by refetching, not propagated. Safe to call concurrently for one
// camera id: at most one remote row survives because the id never changes.
func (g *Guarantor) EnsureExists(ctx context.Context, a adapter.Adapter, cameraID string, fallback *camera.Camera) (*camera.Camera, error) {
	cam, err := a.GetCamera(ctx, cameraID)
	if err == nil {
		return cam, nil
	}
	if !errors.Is(err, adapter.ErrNotFound) {
		return nil, err
	}

	if fallback == nil {
		return nil, fmt.Errorf("%w: camera %s", ErrCannotGuarantee, cameraID)
	}

	spec := *fallback
	spec.ID = cameraID
	created, cerr := a.CreateCamera(ctx, &spec)
	if cerr == nil {
		log.Printf("guarantor: created camera %s via %s", cameraID, a.Name())
		return created, nil
	}
	if !errors.Is(cerr, adapter.ErrCollision) {
		return nil, cerr
	}

	// Lost the creation race — the row exists now. The refetch is retried
	// briefly because some backends serve reads from a lagging replica.
	log.Printf("guarantor: camera %s already created concurrently, refetching", cameraID)
	var refetched *camera.Camera
	rerr := retry.Do(ctx, g.refetch, func(ctx context.Context) error {
		var e error
		refetched, e = a.GetCamera(ctx, cameraID)
		return e
	})
	if rerr != nil {
		return nil, rerr
	}
	return refetched, nil
}
