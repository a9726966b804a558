package sync

import "errors"

var (
	// ErrCannotGuarantee means a camera's remote existence could not be
	// established and no fallback spec was available. The remote path for
	// that photo is a hard stop.
	ErrCannotGuarantee = errors.New("cannot guarantee camera exists remotely")

	// ErrFatal means even the local durable queue failed. The only error a
	// submit may surface to the end user besides the photo quota.
	ErrFatal = errors.New("capture could not be persisted anywhere")
)
