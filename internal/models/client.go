package models

import "time"

// Client-only records. These never reach the relational store; they live in
// the UI state stores and, for drafts, in browser-local persistence.

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

type Notification struct {
	ID        string    `json:"id"`
	Severity  Severity  `json:"severity"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Draft is an unsaved snapshot of in-progress post form data.
type Draft struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	Author       string    `json:"author"`
	LastModified time.Time `json:"lastModified"`
}
