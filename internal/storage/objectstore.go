// Package storage holds the object-storage port used by the direct
// data-client adapter to persist photo bytes.
package storage

import "context"

// ObjectStore puts immutable blobs and hands back a public URL. Photo bytes
// are written exactly once; Delete exists only to roll back an object whose
// database row could not be inserted, so the bytes never live in two places.
type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (publicURL string, err error)
	Delete(ctx context.Context, key string) error
}
