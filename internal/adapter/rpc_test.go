package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispocam/internal/domain/camera"
	"dispocam/internal/domain/photo"
	"dispocam/internal/pkg/ident"
)

func writeOK(w http.ResponseWriter, data any) {
	raw, _ := json.Marshal(data)
	_ = json.NewEncoder(w).Encode(rpcEnvelope{OK: true, Data: raw})
}

func writeErr(w http.ResponseWriter, status int, code string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(rpcEnvelope{OK: false, Error: &rpcError{Code: code}})
}

func testCamera() *camera.Camera {
	return &camera.Camera{
		ID:           ident.NewCameraID(),
		Name:         "rooftop party",
		EndTime:      time.Now().Add(6 * time.Hour).UTC(),
		RevealPolicy: camera.RevealAfter12h,
	}
}

func TestRPC_CreateCamera(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/camera.create", r.URL.Path)
		var c camera.Camera
		require.NoError(t, json.NewDecoder(r.Body).Decode(&c))
		writeOK(w, c)
	}))
	defer srv.Close()

	rpc := NewRPC(srv.URL, DefaultTimeouts)
	spec := testCamera()
	created, err := rpc.CreateCamera(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, spec.ID, created.ID)
}

func TestRPC_CreateCamera_Collision(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeErr(w, http.StatusConflict, "COLLISION")
	}))
	defer srv.Close()

	rpc := NewRPC(srv.URL, DefaultTimeouts)
	_, err := rpc.CreateCamera(context.Background(), testCamera())
	assert.ErrorIs(t, err, ErrCollision)
}

func TestRPC_LegacyID_NoNetworkCall(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeOK(w, nil)
	}))
	defer srv.Close()

	rpc := NewRPC(srv.URL, DefaultTimeouts)
	ctx := context.Background()

	_, err := rpc.GetCamera(ctx, "legacy-123")
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = rpc.CreateCamera(ctx, &camera.Camera{ID: "legacy-123"})
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = rpc.UploadPhoto(ctx, &UploadRequest{CameraID: "legacy-123"})
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = rpc.ListPhotos(ctx, "legacy-123", true)
	assert.ErrorIs(t, err, ErrUnsupported)

	assert.Zero(t, hits.Load(), "legacy ids must never produce a remote call")
}

func TestRPC_GetCamera_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeErr(w, http.StatusNotFound, "NOT_FOUND")
	}))
	defer srv.Close()

	rpc := NewRPC(srv.URL, DefaultTimeouts)
	_, err := rpc.GetCamera(context.Background(), ident.NewCameraID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRPC_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	rpc := NewRPC(srv.URL, DefaultTimeouts)
	_, err := rpc.GetCamera(context.Background(), ident.NewCameraID())
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestRPC_UploadPhoto_Success(t *testing.T) {
	cameraID := ident.NewCameraID()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/photo.upload", r.URL.Path)
		var body rpcUploadBody
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.True(t, ident.IsRemoteAddressable(body.ID), "client must send a shaped photo id")
		writeOK(w, photo.Photo{
			ID:        body.ID,
			CameraID:  body.CameraID,
			PublicURL: "https://cdn.example/" + body.ID + ".jpg",
		})
	}))
	defer srv.Close()

	rpc := NewRPC(srv.URL, DefaultTimeouts)
	p, err := rpc.UploadPhoto(context.Background(), &UploadRequest{
		CameraID: cameraID,
		Bytes:    []byte("jpegbytes"),
		MimeType: "image/jpeg",
		OwnerID:  "guest-1",
	})
	require.NoError(t, err)
	assert.Equal(t, photo.OriginRPC, p.Origin)
	assert.NotEmpty(t, p.PublicURL)
}

func TestRPC_UploadPhoto_Quota(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeErr(w, http.StatusOK, "QUOTA_EXCEEDED")
	}))
	defer srv.Close()

	rpc := NewRPC(srv.URL, DefaultTimeouts)
	_, err := rpc.UploadPhoto(context.Background(), &UploadRequest{CameraID: ident.NewCameraID()})
	assert.ErrorIs(t, err, ErrQuotaExceeded)
}

func TestRPC_UploadPhoto_AmbiguousConfirmedByReadBack(t *testing.T) {
	var uploadedID atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/photo.upload":
			var body rpcUploadBody
			_ = json.NewDecoder(r.Body).Decode(&body)
			uploadedID.Store(body.ID)
			time.Sleep(300 * time.Millisecond) // force client timeout after accepting
		case "/photo.get":
			id, _ := uploadedID.Load().(string)
			writeOK(w, photo.Photo{ID: id, PublicURL: "https://cdn.example/" + id})
		}
	}))
	defer srv.Close()

	rpc := NewRPC(srv.URL, Timeouts{Read: time.Second, Upload: 50 * time.Millisecond})
	p, err := rpc.UploadPhoto(context.Background(), &UploadRequest{
		CameraID: ident.NewCameraID(),
		Bytes:    []byte("x"),
	})
	require.NoError(t, err)
	assert.Equal(t, photo.OriginRPC, p.Origin)
	assert.Equal(t, uploadedID.Load().(string), p.ID)
}

func TestRPC_UploadPhoto_Unconfirmed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/photo.upload":
			time.Sleep(300 * time.Millisecond)
		case "/photo.get":
			writeErr(w, http.StatusNotFound, "NOT_FOUND")
		}
	}))
	defer srv.Close()

	rpc := NewRPC(srv.URL, Timeouts{Read: time.Second, Upload: 50 * time.Millisecond})
	_, err := rpc.UploadPhoto(context.Background(), &UploadRequest{
		CameraID: ident.NewCameraID(),
		Bytes:    []byte("x"),
	})
	assert.ErrorIs(t, err, ErrUnconfirmed)
}

func TestRPC_ListPhotos_EmptyIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeOK(w, []photo.Photo{})
	}))
	defer srv.Close()

	rpc := NewRPC(srv.URL, DefaultTimeouts)
	photos, err := rpc.ListPhotos(context.Background(), ident.NewCameraID(), true)
	require.NoError(t, err)
	assert.Empty(t, photos)
}
