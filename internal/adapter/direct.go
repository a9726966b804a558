package adapter

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"dispocam/internal/domain/camera"
	"dispocam/internal/domain/photo"
	"dispocam/internal/pkg/ident"
	"dispocam/internal/pkg/retry"
	"dispocam/internal/storage"
)

// Direct writes straight to the remote database and object storage, bypassing
// the RPC backend. It is the second link of the fallback chain.
type Direct struct {
	db       *gorm.DB
	objects  storage.ObjectStore
	timeouts Timeouts
}

func NewDirect(db *gorm.DB, objects storage.ObjectStore, timeouts Timeouts) *Direct {
	return &Direct{db: db, objects: objects, timeouts: timeouts}
}

func (d *Direct) Name() string { return "direct" }

// AutoMigrate creates the remote-shaped tables. Production schemas already
// exist; this is for local development and tests.
func (d *Direct) AutoMigrate() error {
	return d.db.AutoMigrate(&cameraRow{}, &photo.Photo{})
}

// cameraRow is the remote cameras table: a subset of the domain Camera.
// Capture-time config that never leaves the device is not part of it.
type cameraRow struct {
	ID                 string              `gorm:"column:id;primaryKey"`
	Name               string              `gorm:"column:name"`
	EndDate            time.Time           `gorm:"column:end_date"`
	RevealDelayType    camera.RevealPolicy `gorm:"column:reveal_delay_type"`
	CustomRevealAt     *time.Time          `gorm:"column:custom_reveal_at"`
	CreatedAt          time.Time           `gorm:"column:created_at"`
	CreatedBy          string              `gorm:"column:created_by"`
	MaxPhotosPerPerson int                 `gorm:"column:max_photos_per_person"`
}

func (cameraRow) TableName() string { return "cameras" }

func toCameraRow(c *camera.Camera) *cameraRow {
	return &cameraRow{
		ID:                 c.ID,
		Name:               c.Name,
		EndDate:            c.EndTime,
		RevealDelayType:    c.RevealPolicy,
		CustomRevealAt:     c.CustomRevealAt,
		CreatedAt:          c.CreatedAt,
		CreatedBy:          c.CreatedBy,
		MaxPhotosPerPerson: c.MaxPhotosPerPerson,
	}
}

func (row *cameraRow) toDomain() *camera.Camera {
	return &camera.Camera{
		ID:                 row.ID,
		Name:               row.Name,
		EndTime:            row.EndDate,
		RevealPolicy:       row.RevealDelayType,
		CustomRevealAt:     row.CustomRevealAt,
		CreatedAt:          row.CreatedAt,
		CreatedBy:          row.CreatedBy,
		MaxPhotosPerPerson: row.MaxPhotosPerPerson,
	}
}

func (d *Direct) CreateCamera(ctx context.Context, spec *camera.Camera) (*camera.Camera, error) {
	if !ident.IsRemoteAddressable(spec.ID) {
		return nil, fmt.Errorf("%w: camera id %q", ErrUnsupported, spec.ID)
	}
	ctx, cancel := d.timeouts.readCtx(ctx)
	defer cancel()

	row := toCameraRow(spec)
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if err := d.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, mapDBError(err)
	}
	return row.toDomain(), nil
}

func (d *Direct) GetCamera(ctx context.Context, id string) (*camera.Camera, error) {
	if !ident.IsRemoteAddressable(id) {
		return nil, fmt.Errorf("%w: camera id %q", ErrUnsupported, id)
	}
	ctx, cancel := d.timeouts.readCtx(ctx)
	defer cancel()

	var row cameraRow
	err := d.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: camera %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, mapDBError(err)
	}
	return row.toDomain(), nil
}

func (d *Direct) UploadPhoto(ctx context.Context, req *UploadRequest) (*photo.Photo, error) {
	if !ident.IsRemoteAddressable(req.CameraID) {
		return nil, fmt.Errorf("%w: camera id %q", ErrUnsupported, req.CameraID)
	}

	cam, err := d.GetCamera(ctx, req.CameraID)
	if err != nil {
		return nil, err
	}

	if err := d.checkQuota(ctx, cam, req.OwnerID); err != nil {
		return nil, err
	}

	upCtx, cancel := d.timeouts.uploadCtx(ctx)
	defer cancel()

	photoID := ident.NewPhotoID(req.CameraID)
	fileName := req.FileName
	if fileName == "" {
		fileName = photoID + extForMime(req.MimeType)
	}

	key := fmt.Sprintf("cameras/%s/%s%s", req.CameraID, photoID, extForMime(req.MimeType))
	publicURL, err := d.objects.Put(upCtx, key, req.Bytes, req.MimeType)
	if err != nil {
		if ambiguous(err) {
			return d.confirmOrFail(ctx, photoID, err)
		}
		return nil, fmt.Errorf("%w: object put: %v", ErrUnreachable, err)
	}

	p := &photo.Photo{
		ID:         photoID,
		CameraID:   req.CameraID,
		OwnerID:    req.OwnerID,
		OwnerName:  req.OwnerName,
		FileName:   fileName,
		PublicURL:  publicURL,
		UploadedAt: time.Now().UTC(),
		MimeType:   req.MimeType,
		ByteSize:   int64(len(req.Bytes)),
	}

	// The photo id is timestamp-derived and can collide under retry; a fresh
	// draw resolves it without bothering the caller.
	for attempt := 0; ; attempt++ {
		err = d.db.WithContext(upCtx).Create(p).Error
		if err == nil {
			break
		}
		mapped := mapDBError(err)
		if errors.Is(mapped, ErrCollision) && attempt < 2 {
			p.ID = ident.NewPhotoID(req.CameraID)
			continue
		}
		if ambiguous(err) {
			// The row may have landed; the object must stay for it.
			return d.confirmOrFail(ctx, p.ID, err)
		}
		// The insert definitely failed and the capture will be retried
		// under a fresh id. Reclaim the stored object so the bytes never
		// survive in two places.
		if derr := d.objects.Delete(ctx, key); derr != nil {
			log.Printf("adapter=direct rollback delete failed key=%s: %v", key, derr)
		}
		return nil, mapped
	}

	p.Origin = photo.OriginDirect
	return p, nil
}

func (d *Direct) ListPhotos(ctx context.Context, cameraID string, includeHidden bool) ([]photo.Photo, error) {
	cam, err := d.GetCamera(ctx, cameraID)
	if err != nil {
		return nil, err
	}
	ctx, cancel := d.timeouts.readCtx(ctx)
	defer cancel()

	var rows []photo.Photo
	if err := d.db.WithContext(ctx).Where("camera_id = ?", cameraID).Order("uploaded_at DESC").Find(&rows).Error; err != nil {
		return nil, mapDBError(err)
	}

	revealed := cam.IsRevealedNow()
	photos := rows[:0]
	for _, p := range rows {
		p.Origin = photo.OriginDirect
		p.IsRevealed = revealed
		if !includeHidden && !revealed {
			continue
		}
		photos = append(photos, p)
	}
	return photos, nil
}

func (d *Direct) checkQuota(ctx context.Context, cam *camera.Camera, ownerID string) error {
	if cam.MaxPhotosPerPerson <= 0 {
		return nil
	}
	var count int64
	err := d.db.WithContext(ctx).Model(&photo.Photo{}).
		Where("camera_id = ? AND user_id = ?", cam.ID, ownerID).
		Count(&count).Error
	if err != nil {
		return mapDBError(err)
	}
	if count >= int64(cam.MaxPhotosPerPerson) {
		return fmt.Errorf("%w: %d/%d photos on camera %s", ErrQuotaExceeded, count, cam.MaxPhotosPerPerson, cam.ID)
	}
	return nil
}

// confirmOrFail reads the just-written row back before declaring an ambiguous
// write either way.
func (d *Direct) confirmOrFail(ctx context.Context, photoID string, cause error) (*photo.Photo, error) {
	log.Printf("adapter=direct upload ambiguous photo_id=%s, reading back", photoID)
	var p photo.Photo
	err := retry.Do(ctx, retry.Confirm, func(ctx context.Context) error {
		ctx, cancel := d.timeouts.readCtx(ctx)
		defer cancel()
		return d.db.WithContext(ctx).Where("id = ?", photoID).First(&p).Error
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnconfirmed, cause)
	}
	p.Origin = photo.OriginDirect
	return &p, nil
}

// mapDBError folds database failures into the adapter taxonomy. Postgres
// errors carry SQLSTATE codes; the sqlite fallback used in development is
// matched by message.
func mapDBError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%w: %s", ErrCollision, pgErr.Detail)
		case "23502", "23503", "23514", "42501": // not-null, fk, check, privilege
			return fmt.Errorf("%w: %s", ErrSchemaRejected, pgErr.Message)
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", ErrCollision, err)
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %v", ErrCollision, err)
	}
	if strings.Contains(msg, "constraint failed") {
		return fmt.Errorf("%w: %v", ErrSchemaRejected, err)
	}
	return fmt.Errorf("%w: %v", ErrUnreachable, err)
}

func extForMime(mime string) string {
	switch mime {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".bin"
	}
}
