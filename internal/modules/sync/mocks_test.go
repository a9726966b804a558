package sync

import (
	"context"
	"fmt"
	gosync "sync"
	"time"

	"dispocam/internal/adapter"
	"dispocam/internal/domain/camera"
	"dispocam/internal/domain/photo"
	"dispocam/internal/offline"
	"dispocam/internal/pkg/ident"
)

// fakeAdapter is a scripted in-memory adapter. Behavior is driven by the
// function fields; unset fields fall back to the in-memory maps, which makes
// race scenarios easy to script.
type fakeAdapter struct {
	name string

	mu      gosync.Mutex
	cameras map[string]*camera.Camera
	photos  map[string][]photo.Photo

	getErr    error
	createErr error
	uploadErr error

	getCalls    int
	createCalls int
	uploadCalls int
}

func newFakeAdapter(name string) *fakeAdapter {
	return &fakeAdapter{
		name:    name,
		cameras: make(map[string]*camera.Camera),
		photos:  make(map[string][]photo.Photo),
	}
}

func (f *fakeAdapter) Name() string { return f.name }

func (f *fakeAdapter) GetCamera(_ context.Context, id string) (*camera.Camera, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	if !ident.IsRemoteAddressable(id) {
		return nil, fmt.Errorf("%w: %s", adapter.ErrUnsupported, id)
	}
	if c, ok := f.cameras[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, fmt.Errorf("%w: %s", adapter.ErrNotFound, id)
}

func (f *fakeAdapter) CreateCamera(_ context.Context, spec *camera.Camera) (*camera.Camera, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	if !ident.IsRemoteAddressable(spec.ID) {
		return nil, fmt.Errorf("%w: %s", adapter.ErrUnsupported, spec.ID)
	}
	if _, ok := f.cameras[spec.ID]; ok {
		return nil, fmt.Errorf("%w: %s", adapter.ErrCollision, spec.ID)
	}
	cp := *spec
	f.cameras[spec.ID] = &cp
	return &cp, nil
}

func (f *fakeAdapter) UploadPhoto(_ context.Context, req *adapter.UploadRequest) (*photo.Photo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploadCalls++
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	cam, ok := f.cameras[req.CameraID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", adapter.ErrNotFound, req.CameraID)
	}
	if cam.MaxPhotosPerPerson > 0 {
		count := 0
		for _, p := range f.photos[req.CameraID] {
			if p.OwnerID == req.OwnerID {
				count++
			}
		}
		if count >= cam.MaxPhotosPerPerson {
			return nil, fmt.Errorf("%w: camera %s", adapter.ErrQuotaExceeded, req.CameraID)
		}
	}
	p := photo.Photo{
		ID:         ident.NewPhotoID(req.CameraID),
		CameraID:   req.CameraID,
		OwnerID:    req.OwnerID,
		OwnerName:  req.OwnerName,
		FileName:   req.FileName,
		PublicURL:  "https://cdn.test/" + req.CameraID,
		UploadedAt: time.Now().UTC(),
		MimeType:   req.MimeType,
		ByteSize:   int64(len(req.Bytes)),
	}
	f.photos[req.CameraID] = append(f.photos[req.CameraID], p)
	return &p, nil
}

func (f *fakeAdapter) ListPhotos(_ context.Context, cameraID string, _ bool) ([]photo.Photo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]photo.Photo(nil), f.photos[cameraID]...), nil
}

func (f *fakeAdapter) photoCount(cameraID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.photos[cameraID])
}

// fakeQueue keeps entries in memory with the store's append/remove contract.
type fakeQueue struct {
	mu         gosync.Mutex
	entries    []offline.Entry
	nextSeq    int64
	enqueueErr error
}

func (q *fakeQueue) Enqueue(_ context.Context, e *offline.Entry) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.enqueueErr != nil {
		return q.enqueueErr
	}
	q.nextSeq++
	e.Seq = q.nextSeq
	q.entries = append(q.entries, *e)
	return nil
}

func (q *fakeQueue) ListAll(_ context.Context) ([]offline.Entry, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]offline.Entry(nil), q.entries...), nil
}

func (q *fakeQueue) RemoveSynced(_ context.Context, entries []offline.Entry) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	drop := make(map[int64]bool, len(entries))
	for _, e := range entries {
		drop[e.Seq] = true
	}
	kept := q.entries[:0]
	for _, e := range q.entries {
		if !drop[e.Seq] {
			kept = append(kept, e)
		}
	}
	q.entries = kept
	return nil
}

func (q *fakeQueue) size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// fakeCache is an in-memory camera cache.
type fakeCache struct {
	mu      gosync.Mutex
	cameras map[string]*camera.Camera
}

func newFakeCache() *fakeCache {
	return &fakeCache{cameras: make(map[string]*camera.Camera)}
}

func (c *fakeCache) FindByID(_ context.Context, id string) (*camera.Camera, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cam, ok := c.cameras[id]; ok {
		cp := *cam
		return &cp, nil
	}
	return nil, camera.ErrCameraNotFound
}

func (c *fakeCache) Add(_ context.Context, cam *camera.Camera) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *cam
	c.cameras[cam.ID] = &cp
	return nil
}

// recordingSink counts events for assertions.
type recordingSink struct {
	mu     gosync.Mutex
	stored []string
	synced []string
}

func (s *recordingSink) PhotoStored(p *photo.Photo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stored = append(s.stored, p.ID)
}

func (s *recordingSink) PhotoSynced(p *photo.Photo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.synced = append(s.synced, p.ID)
}

func (s *recordingSink) syncedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.synced)
}
