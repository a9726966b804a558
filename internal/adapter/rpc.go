package adapter

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"dispocam/internal/domain/camera"
	"dispocam/internal/domain/photo"
	"dispocam/internal/pkg/ident"
	"dispocam/internal/pkg/retry"
)

// RPC talks JSON-over-HTTP to the RPC backend. The wire format is opaque to
// the rest of the core: every call comes back as a record or one of the
// taxonomy errors.
type RPC struct {
	baseURL  string
	client   *http.Client
	timeouts Timeouts
}

func NewRPC(baseURL string, timeouts Timeouts) *RPC {
	return &RPC{
		baseURL:  baseURL,
		client:   &http.Client{},
		timeouts: timeouts,
	}
}

func (r *RPC) Name() string { return "rpc" }

// rpcEnvelope is the backend's uniform response shape.
type rpcEnvelope struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type rpcUploadBody struct {
	ID         string    `json:"id"`
	CameraID   string    `json:"camera_id"`
	Data       string    `json:"data"` // base64 image payload
	FileName   string    `json:"file_name"`
	MimeType   string    `json:"mime_type"`
	OwnerID    string    `json:"user_id"`
	OwnerName  string    `json:"user_name"`
	CapturedAt time.Time `json:"captured_at"`
}

// Ping probes backend liveness. Used by the health checker, never by the
// fallback chain itself.
func (r *RPC) Ping(ctx context.Context) error {
	ctx, cancel := r.timeouts.readCtx(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health returned %d", ErrUnreachable, resp.StatusCode)
	}
	return nil
}

func (r *RPC) CreateCamera(ctx context.Context, spec *camera.Camera) (*camera.Camera, error) {
	if !ident.IsRemoteAddressable(spec.ID) {
		return nil, fmt.Errorf("%w: camera id %q", ErrUnsupported, spec.ID)
	}
	ctx, cancel := r.timeouts.readCtx(ctx)
	defer cancel()

	var created camera.Camera
	if err := r.call(ctx, http.MethodPost, "/camera.create", spec, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *RPC) GetCamera(ctx context.Context, id string) (*camera.Camera, error) {
	if !ident.IsRemoteAddressable(id) {
		return nil, fmt.Errorf("%w: camera id %q", ErrUnsupported, id)
	}
	ctx, cancel := r.timeouts.readCtx(ctx)
	defer cancel()

	var c camera.Camera
	if err := r.call(ctx, http.MethodGet, "/camera.get?id="+url.QueryEscape(id), nil, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *RPC) UploadPhoto(ctx context.Context, req *UploadRequest) (*photo.Photo, error) {
	if !ident.IsRemoteAddressable(req.CameraID) {
		return nil, fmt.Errorf("%w: camera id %q", ErrUnsupported, req.CameraID)
	}

	// The id is generated client-side so an ambiguous outcome can be
	// resolved by reading the row back.
	photoID := ident.NewPhotoID(req.CameraID)
	body := rpcUploadBody{
		ID:         photoID,
		CameraID:   req.CameraID,
		Data:       base64.StdEncoding.EncodeToString(req.Bytes),
		FileName:   req.FileName,
		MimeType:   req.MimeType,
		OwnerID:    req.OwnerID,
		OwnerName:  req.OwnerName,
		CapturedAt: req.CapturedAt,
	}

	upCtx, cancel := r.timeouts.uploadCtx(ctx)
	defer cancel()

	var p photo.Photo
	err := r.call(upCtx, http.MethodPost, "/photo.upload", body, &p)
	if err == nil {
		p.Origin = photo.OriginRPC
		return &p, nil
	}
	if !ambiguous(err) {
		return nil, err
	}

	// Write may have landed. Confirm by reading the row back before
	// declaring either way.
	log.Printf("adapter=rpc upload ambiguous photo_id=%s camera_id=%s, reading back", photoID, req.CameraID)
	confirmed, cerr := r.confirmPhoto(ctx, photoID)
	if cerr != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnconfirmed, err)
	}
	confirmed.Origin = photo.OriginRPC
	return confirmed, nil
}

func (r *RPC) ListPhotos(ctx context.Context, cameraID string, includeHidden bool) ([]photo.Photo, error) {
	if !ident.IsRemoteAddressable(cameraID) {
		return nil, fmt.Errorf("%w: camera id %q", ErrUnsupported, cameraID)
	}
	ctx, cancel := r.timeouts.readCtx(ctx)
	defer cancel()

	path := "/photo.list?camera_id=" + url.QueryEscape(cameraID) +
		"&include_hidden=" + strconv.FormatBool(includeHidden)

	var photos []photo.Photo
	if err := r.call(ctx, http.MethodGet, path, nil, &photos); err != nil {
		return nil, err
	}
	for i := range photos {
		photos[i].Origin = photo.OriginRPC
	}
	return photos, nil
}

func (r *RPC) confirmPhoto(ctx context.Context, photoID string) (*photo.Photo, error) {
	var p photo.Photo
	err := retry.Do(ctx, retry.Confirm, func(ctx context.Context) error {
		ctx, cancel := r.timeouts.readCtx(ctx)
		defer cancel()
		return r.call(ctx, http.MethodGet, "/photo.get?id="+url.QueryEscape(photoID), nil, &p)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// call runs one RPC and decodes the envelope into out.
func (r *RPC) call(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("rpc encode %s: %w", path, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("rpc request %s: %w", path, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	var env rpcEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%w: bad envelope from %s: %v", ErrUnreachable, path, err)
	}
	if !env.OK {
		return mapRPCError(resp.StatusCode, env.Error)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("%w: bad record from %s: %v", ErrUnreachable, path, err)
		}
	}
	return nil
}

func mapRPCError(status int, e *rpcError) error {
	code := ""
	msg := ""
	if e != nil {
		code = e.Code
		msg = e.Message
	}
	switch {
	case code == "NOT_FOUND" || status == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	case code == "COLLISION" || status == http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrCollision, msg)
	case code == "QUOTA_EXCEEDED":
		return fmt.Errorf("%w: %s", ErrQuotaExceeded, msg)
	case code == "SCHEMA_REJECTED" ||
		status == http.StatusForbidden ||
		status == http.StatusUnprocessableEntity ||
		status == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrSchemaRejected, msg)
	default:
		return fmt.Errorf("%w: rpc status=%d code=%s %s", ErrUnreachable, status, code, msg)
	}
}

// ambiguous reports whether an upload error leaves the write outcome unknown:
// the request went out but no confirmation came back.
func ambiguous(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
