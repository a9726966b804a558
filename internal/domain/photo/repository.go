package photo

import (
	"context"

	"gorm.io/gorm"
)

// Repository is the on-device photo cache: every successful upload outcome is
// recorded here so the gallery can render without waiting on the network.
// It is one of the four gallery merge sources.
type Repository interface {
	Save(ctx context.Context, p *Photo) error
	ListByCamera(ctx context.Context, cameraID string) ([]Photo, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Save(ctx context.Context, p *Photo) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *repository) ListByCamera(ctx context.Context, cameraID string) ([]Photo, error) {
	var photos []Photo
	err := r.db.WithContext(ctx).Where("camera_id = ?", cameraID).Order("uploaded_at DESC").Find(&photos).Error
	return photos, err
}
