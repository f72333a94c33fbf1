package models

import "time"

// PurchaseSheet is the raw content of the purchase indent spreadsheet
type PurchaseSheet struct {
	Headers []string            `json:"headers"`
	Rows    []map[string]string `json:"rows"`
}

// PurchaseSummary counts indents by their status column
type PurchaseSummary struct {
	Total    int        `json:"total"`
	ByStatus *Histogram `json:"byStatus"`
}

// PurchaseDashboard is the response of the purchase indent dashboard
type PurchaseDashboard struct {
	Headers   []string            `json:"headers"`
	Rows      []map[string]string `json:"rows"`
	Summary   PurchaseSummary     `json:"summary"`
	FetchedAt time.Time           `json:"fetchedAt"`
	Cached    bool                `json:"cached"`
}
