package models

import "time"

// ExportStatus represents the status of an export job
type ExportStatus string

const (
	ExportStatusPending    ExportStatus = "pending"
	ExportStatusProcessing ExportStatus = "processing"
	ExportStatusCompleted  ExportStatus = "completed"
	ExportStatusFailed     ExportStatus = "failed"
)

// ExportJob represents an async MIS report PDF export
type ExportJob struct {
	ID        string       `json:"id"`
	Status    ExportStatus `json:"status"`
	Year      int          `json:"year"`
	Month     int          `json:"month"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
	Error     string       `json:"error,omitempty"`
	Key       string       `json:"key,omitempty"` // archive object key
	URL       string       `json:"url,omitempty"`
}
