package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Designation is a job title users can be assigned
type Designation struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	NameKey   string             `bson:"nameKey" json:"-"` // lower-cased name, unique
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// DisplayMode controls how list pages render records
type DisplayMode string

const (
	DisplayModeTable   DisplayMode = "table"
	DisplayModeCard    DisplayMode = "card"
	DisplayModeCompact DisplayMode = "compact"
)

// DefaultDisplayMode is used until a mode has been saved
const DefaultDisplayMode = DisplayModeTable

// Valid reports whether m is a supported display mode
func (m DisplayMode) Valid() bool {
	switch m {
	case DisplayModeTable, DisplayModeCard, DisplayModeCompact:
		return true
	}
	return false
}

// DisplaySettings is the singleton display settings document
type DisplaySettings struct {
	Mode      DisplayMode `bson:"mode" json:"mode"`
	UpdatedAt time.Time   `bson:"updatedAt" json:"updatedAt"`
}

// Report dashboard widget ids
const (
	WidgetTasksSummary       = "tasks-summary"
	WidgetTasksByPerson      = "tasks-by-person"
	WidgetFMSSummary         = "fms-summary"
	WidgetFMSSteps           = "fms-steps"
	WidgetChecklistsSummary  = "checklists-summary"
	WidgetHelpTicketsSummary = "helptickets-summary"
	WidgetPurchaseSummary    = "purchase-summary"
)

// DefaultWidgetOrder is the layout shown before a user customizes it
var DefaultWidgetOrder = []string{
	WidgetTasksSummary,
	WidgetTasksByPerson,
	WidgetFMSSummary,
	WidgetFMSSteps,
	WidgetChecklistsSummary,
	WidgetHelpTicketsSummary,
	WidgetPurchaseSummary,
}

// DashboardWidget is one card on the report dashboard
type DashboardWidget struct {
	ID      string `bson:"id" json:"id" binding:"required"`
	Visible bool   `bson:"visible" json:"visible"`
}

// DashboardLayout is a user's ordered report dashboard
type DashboardLayout struct {
	UserID    string            `bson:"userId" json:"userId"`
	Widgets   []DashboardWidget `bson:"widgets" json:"widgets"`
	UpdatedAt time.Time         `bson:"updatedAt" json:"updatedAt"`
}

// ReportSubscription is a recipient of the monthly MIS email
type ReportSubscription struct {
	Email        string    `bson:"email" json:"email"`
	Name         string    `bson:"name" json:"name"`
	SubscribedAt time.Time `bson:"subscribedAt" json:"subscribedAt"`
}
