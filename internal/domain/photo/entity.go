package photo

import "time"

// Origin records which persistence path stored a photo. Merge bookkeeping
// only — never shown to the end user.
type Origin string

const (
	OriginRPC     Origin = "rpc_backend"
	OriginDirect  Origin = "direct_client"
	OriginOffline Origin = "offline_queue"
)

// Photo is one captured image's record. Exactly one of PublicURL/LocalURI is
// set, depending on where the bytes currently live. The column layout matches
// the remote photos table; Origin and IsRevealed are view-time fields and are
// never persisted remotely.
type Photo struct {
	ID         string    `gorm:"column:id;primaryKey" json:"id"`
	CameraID   string    `gorm:"column:camera_id" json:"camera_id"`
	OwnerID    string    `gorm:"column:user_id" json:"user_id"`
	OwnerName  string    `gorm:"column:user_name" json:"user_name"`
	FileName   string    `gorm:"column:file_name" json:"file_name"`
	PublicURL  string    `gorm:"column:public_url" json:"public_url,omitempty"`
	LocalURI   string    `gorm:"-" json:"local_uri,omitempty"`
	UploadedAt time.Time `gorm:"column:uploaded_at" json:"uploaded_at"`
	MimeType   string    `gorm:"column:mime_type" json:"mime_type"`
	ByteSize   int64     `gorm:"column:file_size" json:"file_size"`
	IsRevealed bool      `gorm:"-" json:"is_revealed"`
	Origin     Origin    `gorm:"-" json:"-"`
}

func (Photo) TableName() string { return "photos" }

// Capture is what the capture UI hands to the upload orchestrator.
type Capture struct {
	CameraID   string
	Bytes      []byte
	FileName   string
	MimeType   string
	OwnerID    string
	OwnerName  string
	CapturedAt time.Time
}

// Outcome reports where a submitted capture ended up.
type Outcome struct {
	Origin Origin `json:"origin"`
	Photo  *Photo `json:"photo"`
}
