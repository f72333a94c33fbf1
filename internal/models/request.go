package models

// PeriodRequest selects a reporting month in JSON bodies
type PeriodRequest struct {
	Year  int `json:"year" binding:"required"`
	Month int `json:"month" binding:"required"`
}

// ExportResponse represents the response when creating an export job
type ExportResponse struct {
	JobID  string `json:"jobId"`
	Status string `json:"status"`
}

// CreateDesignationRequest represents the request to add a designation
type CreateDesignationRequest struct {
	Name string `json:"name" binding:"required"`
}

// DisplayModeRequest represents the request to change the display mode
type DisplayModeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

// SaveLayoutRequest represents the request to replace a dashboard layout
type SaveLayoutRequest struct {
	Widgets []DashboardWidget `json:"widgets" binding:"required,dive"`
}

// MoveWidgetRequest represents a drag-and-drop move on the dashboard
type MoveWidgetRequest struct {
	From *int `json:"from" binding:"required"`
	To   *int `json:"to" binding:"required"`
}

// SubscribeRequest represents the request to opt into monthly MIS emails
type SubscribeRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name"`
}

// UnsubscribeRequest represents the request to opt out of monthly MIS emails
type UnsubscribeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// SendReportEmailRequest represents the request to manually email a MIS report
type SendReportEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name"`
	Year  int    `json:"year" binding:"required"`
	Month int    `json:"month" binding:"required"`
}
