package gallery

import (
	"context"
	"log"
	"time"

	"dispocam/internal/adapter"
	"dispocam/internal/domain/camera"
	"dispocam/internal/domain/photo"
	dispsync "dispocam/internal/modules/sync"
	"dispocam/internal/offline"
)

// OfflineReader is the slice of the offline store the gallery needs.
type OfflineReader interface {
	ListForCamera(ctx context.Context, cameraID string) ([]offline.Entry, error)
}

// Service assembles the four gallery sources and merges them. Every source
// failure degrades to an empty list: a partial gallery beats an error screen.
type Service struct {
	rpc      adapter.Adapter // nil when not configured
	direct   adapter.Adapter // nil when not configured
	cameras  camera.Repository
	photos   photo.Repository
	queue    OfflineReader
	liveness dispsync.LivenessPort
}

func NewService(rpc, direct adapter.Adapter, cameras camera.Repository, photos photo.Repository, queue OfflineReader, liveness dispsync.LivenessPort) *Service {
	if liveness == nil {
		liveness = dispsync.StaticLiveness(true)
	}
	return &Service{rpc: rpc, direct: direct, cameras: cameras, photos: photos, queue: queue, liveness: liveness}
}

// Gallery returns the merged, ordered view for one camera. includeHidden is
// for the camera owner; guests only ever see revealed photos.
func (s *Service) Gallery(ctx context.Context, cameraID string, includeHidden bool) ([]photo.Photo, *camera.Camera, error) {
	cam := s.lookupCamera(ctx, cameraID)

	var rpcList, directList []photo.Photo
	if s.rpc != nil && s.liveness.IsRPCReachable() {
		rpcList = s.listRemote(ctx, s.rpc, cameraID, includeHidden)
	}
	if s.direct != nil {
		directList = s.listRemote(ctx, s.direct, cameraID, includeHidden)
	}

	var localList []photo.Photo
	if cached, err := s.photos.ListByCamera(ctx, cameraID); err == nil {
		localList = cached
	} else {
		log.Printf("gallery: local photo cache read failed camera_id=%s: %v", cameraID, err)
	}

	var offlineList []photo.Photo
	if entries, err := s.queue.ListForCamera(ctx, cameraID); err == nil {
		for i := range entries {
			offlineList = append(offlineList, *dispsync.PhotoView(&entries[i]))
		}
	} else {
		log.Printf("gallery: offline queue read failed camera_id=%s: %v", cameraID, err)
	}

	merged := Merge(cam, time.Now(), rpcList, directList, localList, offlineList)
	if !includeHidden {
		visible := merged[:0]
		for _, p := range merged {
			if p.IsRevealed {
				visible = append(visible, p)
			}
		}
		merged = visible
	}
	return merged, cam, nil
}

func (s *Service) listRemote(ctx context.Context, a adapter.Adapter, cameraID string, includeHidden bool) []photo.Photo {
	photos, err := a.ListPhotos(ctx, cameraID, includeHidden)
	if err != nil {
		log.Printf("gallery: %s list failed camera_id=%s: %v", a.Name(), cameraID, err)
		return nil
	}
	return photos
}

// lookupCamera prefers the local cache and falls back to the remote
// adapters. A miss everywhere returns nil; the merge then keeps everything
// hidden rather than guessing a reveal policy.
func (s *Service) lookupCamera(ctx context.Context, cameraID string) *camera.Camera {
	if cam, err := s.cameras.FindByID(ctx, cameraID); err == nil {
		return cam
	}
	for _, a := range []adapter.Adapter{s.rpc, s.direct} {
		if a == nil {
			continue
		}
		if a == s.rpc && !s.liveness.IsRPCReachable() {
			continue
		}
		if cam, err := a.GetCamera(ctx, cameraID); err == nil {
			return cam
		}
	}
	return nil
}
