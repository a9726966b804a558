package camera

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Repository is the on-device camera cache. It is the source of the
// guarantor's fallback spec and always holds every camera this device
// created or joined, whether or not a remote copy exists yet.
type Repository interface {
	Add(ctx context.Context, c *Camera) error
	FindByID(ctx context.Context, id string) (*Camera, error)
	List(ctx context.Context) ([]Camera, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Add(ctx context.Context, c *Camera) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Camera, error) {
	var c Camera
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCameraNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) List(ctx context.Context) ([]Camera, error) {
	var cams []Camera
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&cams).Error
	return cams, err
}
