package camera

import (
	"time"

	domain "dispocam/internal/domain/camera"
)

type CreateRequest struct {
	Name               string     `json:"name" validate:"required,min=1,max=80"`
	EndDate            time.Time  `json:"end_date" validate:"required"`
	RevealDelayType    string     `json:"reveal_delay_type" validate:"required,oneof=immediate 12h 24h custom"`
	CustomRevealAt     *time.Time `json:"custom_reveal_at"`
	MaxPhotosPerPerson int        `json:"max_photos_per_person" validate:"gte=0,lte=100"`
	ParticipantLimit   int        `json:"participant_limit" validate:"gte=0,lte=500"`
	AllowGalleryImport bool       `json:"allow_gallery_import"`
	Filter             string     `json:"filter"`
	JoinCode           string     `json:"join_code" validate:"omitempty,min=4,max=32"`
	CreatedBy          string     `json:"created_by"`
}

type CreateResponse struct {
	Camera    *domain.Camera `json:"camera"`
	Placement string         `json:"placement"` // rpc | direct | local
}

type JoinRequest struct {
	JoinCode  string `json:"join_code"`
	GuestName string `json:"guest_name" validate:"required,min=1,max=40"`
}

type JoinResponse struct {
	Token   string         `json:"token"`
	OwnerID string         `json:"owner_id"`
	Camera  *domain.Camera `json:"camera"`
}
