package ident

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCameraID_Shape(t *testing.T) {
	for i := 0; i < 100; i++ {
		id := NewCameraID()
		assert.True(t, IsRemoteAddressable(id), "camera id %q must be UUID v4 shaped", id)
	}
}

func TestNewPhotoID_Shape(t *testing.T) {
	cameraID := NewCameraID()
	for i := 0; i < 100; i++ {
		id := NewPhotoID(cameraID)
		assert.True(t, IsRemoteAddressable(id), "photo id %q must be UUID v4 shaped", id)
	}
}

func TestNewPhotoID_CarriesCameraPrefix(t *testing.T) {
	id := NewPhotoID("deadbeef-0000-4000-8000-000000000000")
	assert.True(t, strings.HasPrefix(id, "deadbeef"))
}

func TestNewPhotoID_LegacyCameraID(t *testing.T) {
	// Non-hex camera ids still produce a valid shape.
	id := NewPhotoID("legacy-123")
	assert.True(t, IsRemoteAddressable(id))
}

func TestNewPhotoID_NoTrivialCollision(t *testing.T) {
	cameraID := NewCameraID()
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewPhotoID(cameraID)
		assert.False(t, seen[id], "photo id repeated: %s", id)
		seen[id] = true
	}
}

func TestIsRemoteAddressable(t *testing.T) {
	cases := []struct {
		id string
		ok bool
	}{
		{"1f2e3d4c-5b6a-4978-8f0e-1d2c3b4a5968", true},
		{"1f2e3d4c-5b6a-4978-bf0e-1d2c3b4a5968", true},
		{"legacy-123", false},
		{"", false},
		{"1F2E3D4C-5B6A-4978-8F0E-1D2C3B4A5968", false}, // uppercase rejected
		{"1f2e3d4c-5b6a-1978-8f0e-1d2c3b4a5968", false}, // wrong version nibble
		{"1f2e3d4c-5b6a-4978-cf0e-1d2c3b4a5968", false}, // wrong variant nibble
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, IsRemoteAddressable(tc.id), tc.id)
	}
}
