package models

// ThumbnailJob is the payload enqueued after a successful image upload and
// consumed by the worker pipeline. Delivery is at-least-once, so processing
// must be idempotent: regenerating an existing derivative overwrites it.
type ThumbnailJob struct {
	FileID string `json:"fileId"`
	UserID string `json:"userId"`
}
