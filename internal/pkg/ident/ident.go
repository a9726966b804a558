package ident

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Remote tables only accept UUID-v4 shaped ids. Cameras created before this
// constraint existed carry free-form ids and are never remotely addressable.
var uuidShape = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

// NewCameraID returns a random UUID v4 string.
func NewCameraID() string {
	return uuid.New().String()
}

// NewPhotoID builds a UUID-v4 shaped id from the capture instant, a prefix
// taken from the owning camera's id and random bits. It is collision-resistant
// enough for normal use but NOT unique under retry; duplicate suppression
// happens in the gallery merge, not here.
func NewPhotoID(cameraID string) string {
	raw := make([]byte, 0, 32)

	// 8 hex chars from the camera id, zero-padded when too short.
	prefix := strings.ReplaceAll(strings.ToLower(cameraID), "-", "")
	prefix = keepHex(prefix)
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	raw = append(raw, prefix...)
	for len(raw) < 8 {
		raw = append(raw, '0')
	}

	// 12 hex chars of the capture timestamp (microseconds, truncated).
	ts := fmt.Sprintf("%012x", time.Now().UnixMicro()&0xffffffffffff)
	raw = append(raw, ts...)

	// 12 random hex chars.
	var rnd [6]byte
	_, _ = rand.Read(rnd[:])
	raw = append(raw, hex.EncodeToString(rnd[:])...)

	// Force the version and variant nibbles so the shape check passes.
	raw[12] = '4'
	raw[16] = variantNibble(raw[16])

	return fmt.Sprintf("%s-%s-%s-%s-%s", raw[0:8], raw[8:12], raw[12:16], raw[16:20], raw[20:32])
}

// IsRemoteAddressable reports whether an id may be sent to a remote adapter.
func IsRemoteAddressable(id string) bool {
	return uuidShape.MatchString(id)
}

func keepHex(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') {
			return r
		}
		return -1
	}, s)
}

func variantNibble(c byte) byte {
	return "89ab"[c%4]
}
