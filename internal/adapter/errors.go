package adapter

import "errors"

// Failure taxonomy shared by both adapters. The orchestrator recovers from
// everything here except ErrQuotaExceeded, which must reach the capturing
// user instead of silently spilling into the offline queue.
var (
	ErrUnreachable    = errors.New("remote target unreachable")
	ErrNotFound       = errors.New("no matching remote row")
	ErrUnsupported    = errors.New("legacy id is not remotely addressable")
	ErrCollision      = errors.New("id already exists remotely")
	ErrSchemaRejected = errors.New("remote schema rejected the write")
	ErrQuotaExceeded  = errors.New("photo limit reached for this camera")
	ErrUnconfirmed    = errors.New("write issued but outcome unknown")
)
