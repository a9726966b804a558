package capture

type SubmitRequest struct {
	CameraID string `json:"camera_id" validate:"required"`
	Data     string `json:"data" validate:"required"` // base64-encoded image
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type" validate:"required,oneof=image/jpeg image/png image/gif image/webp"`
}
