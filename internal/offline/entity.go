package offline

import "time"

// Entry is one capture parked on the device because no remote target was
// reachable. Payload keeps the encoded image bytes verbatim; the entry is the
// authoritative home of the photo until a confirmed remote sync removes it.
type Entry struct {
	Seq        int64     `gorm:"column:seq;primaryKey;autoIncrement" json:"seq"`
	PhotoID    string    `gorm:"column:photo_id" json:"photo_id"`
	CameraID   string    `gorm:"column:camera_id;index" json:"camera_id"`
	OwnerID    string    `gorm:"column:owner_id" json:"owner_id"`
	OwnerName  string    `gorm:"column:owner_name" json:"owner_name"`
	FileName   string    `gorm:"column:file_name" json:"file_name"`
	Payload    []byte    `gorm:"column:payload" json:"-"`
	MimeType   string    `gorm:"column:mime_type" json:"mime_type"`
	ByteSize   int64     `gorm:"column:byte_size" json:"byte_size"`
	CapturedAt time.Time `gorm:"column:captured_at" json:"captured_at"`
}

func (Entry) TableName() string { return "offline_photos" }
