package models

// Task types
const (
	TaskTypeOneTime   = "one-time"
	TaskTypeDaily     = "daily"
	TaskTypeWeekly    = "weekly"
	TaskTypeMonthly   = "monthly"
	TaskTypeQuarterly = "quarterly"
	TaskTypeYearly    = "yearly"
)

// Task statuses
const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in-progress"
	TaskStatusCompleted  = "completed"
	TaskStatusOverdue    = "overdue"
)

// Workflow step statuses
const (
	StepStatusPending    = "Pending"
	StepStatusInProgress = "In Progress"
	StepStatusDone       = "Done"
	StepStatusNotStarted = "Not Started"
)

// ChecklistStatusSubmitted is the only status counted as done
const ChecklistStatusSubmitted = "Submitted"

// Help ticket statuses, lower-cased
const (
	TicketStatusOpen             = "open"
	TicketStatusInProgress       = "in progress"
	TicketStatusClosed           = "closed"
	TicketStatusVerifiedAndClose = "verified & closed"
)

// KnownTaskStatuses seeds the task status histogram
var KnownTaskStatuses = []string{
	TaskStatusPending,
	TaskStatusInProgress,
	TaskStatusCompleted,
	TaskStatusOverdue,
}

// KnownTaskTypes seeds the task type histogram
var KnownTaskTypes = []string{
	TaskTypeOneTime,
	TaskTypeDaily,
	TaskTypeWeekly,
	TaskTypeMonthly,
	TaskTypeQuarterly,
	TaskTypeYearly,
}
