package models

// MISReport is the monthly cross-entity report document
type MISReport struct {
	Period      ReportPeriod      `json:"period"`
	Tasks       TaskSummary       `json:"tasks"`
	FMS         FMSSummary        `json:"fms"`
	Checklists  ChecklistSummary  `json:"checklists"`
	HelpTickets HelpTicketSummary `json:"helpTickets"`
	Users       []UserEntry       `json:"users"`
}

// ReportPeriod is the resolved reporting month
type ReportPeriod struct {
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	StartDate string `json:"startDate"` // ISO 8601
	EndDate   string `json:"endDate"`   // ISO 8601
}

// PersonIdentity identifies the user a breakdown record belongs to
type PersonIdentity struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TaskSummary aggregates tasks created in the period
type TaskSummary struct {
	Total    int                `json:"total"`
	OneOff   int                `json:"oneOff"`
	Cyclic   int                `json:"cyclic"`
	ByStatus *Histogram         `json:"byStatus"`
	ByType   *Histogram         `json:"byType"`
	ByPerson []*TaskPersonStats `json:"byPerson"`
}

// TaskPersonStats is the per-assignee task breakdown
type TaskPersonStats struct {
	PersonIdentity
	Total      int            `json:"total"`
	OneOff     int            `json:"oneOff"`
	Cyclic     int            `json:"cyclic"`
	Pending    int            `json:"pending"`
	InProgress int            `json:"in-progress"`
	Completed  int            `json:"completed"`
	Overdue    int            `json:"overdue"`
	Other      map[string]int `json:"other,omitempty"` // unrecognized statuses
}

// FMSSummary aggregates workflow instances created in the period
type FMSSummary struct {
	Total               int               `json:"total"`
	InProgress          int               `json:"inProgress"`
	Completed           int               `json:"completed"`
	ByPerson            []*FMSPersonStats `json:"byPerson"`
	StepStatusBreakdown map[string]int    `json:"stepStatusBreakdown"`
}

// FMSPersonStats is the per-step-owner workflow breakdown
type FMSPersonStats struct {
	PersonIdentity
	Total        int   `json:"total"`
	InProgress   int   `json:"inProgress"`
	Completed    int   `json:"completed"`
	PendingSteps []int `json:"pendingSteps"`
}

// ChecklistSummary aggregates checklists created in the period
type ChecklistSummary struct {
	Total    int                     `json:"total"`
	Done     int                     `json:"done"`
	NotDone  int                     `json:"notDone"`
	ByPerson []*ChecklistPersonStats `json:"byPerson"`
}

// ChecklistPersonStats is the per-assignee checklist breakdown
type ChecklistPersonStats struct {
	PersonIdentity
	Total   int `json:"total"`
	Done    int `json:"done"`
	NotDone int `json:"notDone"`
}

// HelpTicketSummary aggregates help tickets created in the period
type HelpTicketSummary struct {
	Total      int                      `json:"total"`
	Open       int                      `json:"open"`
	InProgress int                      `json:"in-progress"`
	Closed     int                      `json:"closed"`
	Other      int                      `json:"other,omitempty"`
	ByPerson   []*HelpTicketPersonStats `json:"byPerson"`
}

// HelpTicketPersonStats is the per-handler help ticket breakdown
type HelpTicketPersonStats struct {
	PersonIdentity
	Total      int `json:"total"`
	Open       int `json:"open"`
	InProgress int `json:"in-progress"`
	Closed     int `json:"closed"`
	Other      int `json:"other,omitempty"`
}

// UserEntry is one row of the user directory attached to the report
type UserEntry struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}
