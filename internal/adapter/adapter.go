// Package adapter defines the shared contract of the two remote write paths:
// the RPC backend and the direct data-client. The upload orchestrator treats
// them as interchangeable and tries one, then the other, never both in
// parallel for the same photo.
package adapter

import (
	"context"
	"time"

	"dispocam/internal/domain/camera"
	"dispocam/internal/domain/photo"
)

// Timeouts bound every remote call; an expired call is a failure and the
// fallback chain proceeds.
type Timeouts struct {
	Read   time.Duration // camera reads, listings, small writes
	Upload time.Duration // photo byte uploads
}

// DefaultTimeouts matches what the clients observe in the field.
var DefaultTimeouts = Timeouts{Read: 5 * time.Second, Upload: 30 * time.Second}

// UploadRequest carries one capture into an adapter. The referenced camera
// must already exist remotely — the guarantor establishes that precondition.
type UploadRequest struct {
	CameraID   string
	Bytes      []byte
	FileName   string
	MimeType   string
	OwnerID    string
	OwnerName  string
	CapturedAt time.Time
}

// Adapter is the four-operation remote persistence contract.
type Adapter interface {
	Name() string
	CreateCamera(ctx context.Context, spec *camera.Camera) (*camera.Camera, error)
	GetCamera(ctx context.Context, id string) (*camera.Camera, error)
	UploadPhoto(ctx context.Context, req *UploadRequest) (*photo.Photo, error)
	ListPhotos(ctx context.Context, cameraID string, includeHidden bool) ([]photo.Photo, error)
}

// CreateCameraRetries caps id regeneration when CreateCamera hits a
// collision with a freshly generated id.
const CreateCameraRetries = 5

func (t Timeouts) readCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if t.Read <= 0 {
		t.Read = DefaultTimeouts.Read
	}
	return context.WithTimeout(ctx, t.Read)
}

func (t Timeouts) uploadCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if t.Upload <= 0 {
		t.Upload = DefaultTimeouts.Upload
	}
	return context.WithTimeout(ctx, t.Upload)
}
