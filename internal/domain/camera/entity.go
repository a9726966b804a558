package camera

import "time"

// RevealPolicy controls when a camera's photos become visible to guests.
type RevealPolicy string

const (
	RevealImmediate RevealPolicy = "immediate"
	RevealAfter12h  RevealPolicy = "12h"
	RevealAfter24h  RevealPolicy = "24h"
	RevealCustom    RevealPolicy = "custom"
)

// Camera is a time-boxed photo-sharing event. The row layout matches the
// remote cameras table; JoinCodeHash only lives in the local cache.
type Camera struct {
	ID                 string       `gorm:"column:id;primaryKey" json:"id"`
	Name               string       `gorm:"column:name" json:"name"`
	EndTime            time.Time    `gorm:"column:end_date" json:"end_date"`
	RevealPolicy       RevealPolicy `gorm:"column:reveal_delay_type" json:"reveal_delay_type"`
	CustomRevealAt     *time.Time   `gorm:"column:custom_reveal_at" json:"custom_reveal_at,omitempty"`
	MaxPhotosPerPerson int          `gorm:"column:max_photos_per_person" json:"max_photos_per_person"`
	ParticipantLimit   int          `gorm:"column:participant_limit" json:"participant_limit"`
	AllowGalleryImport bool         `gorm:"column:allow_gallery_import" json:"allow_gallery_import"`
	Filter             string       `gorm:"column:filter" json:"filter"`
	JoinCodeHash       string       `gorm:"column:join_code_hash" json:"-"`
	CreatedBy          string       `gorm:"column:created_by" json:"created_by"`
	CreatedAt          time.Time    `gorm:"column:created_at" json:"created_at"`
}

func (Camera) TableName() string { return "cameras" }

// IsActiveAt reports whether the event is still running.
func (c *Camera) IsActiveAt(now time.Time) bool {
	return now.Before(c.EndTime)
}
