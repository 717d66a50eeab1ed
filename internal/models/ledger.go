package models

import "time"

type DispatchStatus string

const (
	DispatchSent    DispatchStatus = "sent"
	DispatchFailed  DispatchStatus = "failed"
	DispatchPending DispatchStatus = "pending"
)

// RecipientSnapshot is copied into the ledger at send time and never
// refreshed from the person record.
type RecipientSnapshot struct {
	Name        string     `json:"name"`
	Phone       string     `json:"phone"`
	Type        PersonType `json:"type"`
	PermanentID string     `json:"ip"`
	PersonID    string     `json:"personId"`
	Delivered   bool       `json:"delivered"`
}

type LedgerEntry struct {
	ID             string              `json:"id"`
	Message        string              `json:"message"`
	Recipients     []RecipientSnapshot `json:"recipients"`
	SentBy         string              `json:"sentBy"`
	RecipientCount int                 `json:"recipientCount"`
	SuccessCount   int                 `json:"successCount"`
	Status         DispatchStatus      `json:"status"`
	CreatedAt      time.Time           `json:"createdAt"`
}
