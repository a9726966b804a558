package gallery

import (
	"sort"
	"time"

	"dispocam/internal/domain/camera"
	"dispocam/internal/domain/photo"
)

// dedupWindow treats two entries with uploadedAt this close as the same
// photo. Photo ids are not collision-proof under retry, so identity is
// best-effort across id, URL, filename and timestamp.
const dedupWindow = 5 * time.Second

// Merge folds the four gallery sources into one consistent view: duplicates
// suppressed, newest first, reveal status recomputed against now. This is the
// only place duplicate suppression happens.
func Merge(cam *camera.Camera, now time.Time, rpcList, directList, localList, offlineList []photo.Photo) []photo.Photo {
	candidates := make([]photo.Photo, 0, len(rpcList)+len(directList)+len(localList)+len(offlineList))
	candidates = append(candidates, rpcList...)
	candidates = append(candidates, directList...)
	candidates = append(candidates, localList...)
	candidates = append(candidates, offlineList...)

	kept := make([]photo.Photo, 0, len(candidates))
	for _, c := range candidates {
		matched := false
		for i := range kept {
			if !samePhoto(&kept[i], &c) {
				continue
			}
			matched = true
			// Richer origin wins; equal richness falls back to the
			// smaller id so the survivor never depends on input order.
			switch cr, kr := richness(c.Origin), richness(kept[i].Origin); {
			case cr > kr:
				kept[i] = c
			case cr == kr && c.ID < kept[i].ID:
				kept[i] = c
			}
			break
		}
		if !matched {
			kept = append(kept, c)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if !kept[i].UploadedAt.Equal(kept[j].UploadedAt) {
			return kept[i].UploadedAt.After(kept[j].UploadedAt)
		}
		return kept[i].ID < kept[j].ID
	})

	// Reveal status is never trusted from a source list; it is a view-time
	// fact. Without a camera record nothing is shown as revealed.
	revealed := cam != nil && cam.IsRevealedAt(now)
	for i := range kept {
		kept[i].IsRevealed = revealed
	}
	return kept
}

// samePhoto reports whether two entries describe one photo. Any single
// signal is enough: exact id, matching URL or local URI, same filename, or
// upload instants within the dedup window.
func samePhoto(a, b *photo.Photo) bool {
	if a.ID != "" && a.ID == b.ID {
		return true
	}
	if a.PublicURL != "" && a.PublicURL == b.PublicURL {
		return true
	}
	if a.LocalURI != "" && a.LocalURI == b.LocalURI {
		return true
	}
	if a.FileName != "" && a.FileName == b.FileName {
		return true
	}
	d := a.UploadedAt.Sub(b.UploadedAt)
	if d < 0 {
		d = -d
	}
	return d <= dedupWindow
}

// richness ranks sources when duplicates collide: remote records carry the
// public URL and authoritative timestamps, queue entries only the capture.
func richness(o photo.Origin) int {
	switch o {
	case photo.OriginRPC:
		return 3
	case photo.OriginDirect:
		return 2
	case photo.OriginOffline:
		return 0
	default:
		return 1
	}
}
