package camera

import "errors"

var (
	ErrCameraNotFound = errors.New("camera not found")
	ErrBadJoinCode    = errors.New("join code does not match")
	ErrCameraEnded    = errors.New("camera has already ended")
)
