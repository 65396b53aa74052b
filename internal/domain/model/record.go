// Package model contains domain models passed between layers.
package model

import "github.com/okian/evalrecon/internal/domain/dedupe"

// Status is the completion state of a reconciled attendee.
type Status string

const (
	StatusDone    Status = "done"
	StatusPending Status = "pending"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusDone || s == StatusPending
}

// Attendee is a person expected to submit exactly one response.
type Attendee struct {
	ID         string `json:"id"`         // employee number (nik), may be empty in sheet mode
	Name       string `json:"name"`       // display name (nama)
	Department string `json:"department"` // department as spelled upstream (departemen)
}

// Key returns the attendee identity: the normalized id when present,
// otherwise the normalized name.
func (a Attendee) Key() string {
	if k := dedupe.Normalize(a.ID); k != "" {
		return k
	}
	return dedupe.Normalize(a.Name)
}

// Response is one submitted evaluation tied to an attendee by id.
type Response struct {
	ID        string   `json:"id"`              // attendee identity it belongs to
	Timestamp string   `json:"timestamp"`       // submission time as sent upstream
	Score     *float64 `json:"score,omitempty"` // optional evaluation score (nilai)
}

// Key returns the normalized attendee identity this response points at.
func (r Response) Key() string {
	return dedupe.Normalize(r.ID)
}

// ReconciledRecord is the join of one attendee with at most one response.
// Score and Timestamp are only set when Status is StatusDone.
type ReconciledRecord struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Department string   `json:"department"`
	Status     Status   `json:"status"`
	Score      *float64 `json:"score,omitempty"`
	Timestamp  *string  `json:"timestamp,omitempty"`
}

// Done reports whether the attendee has a matching response.
func (r ReconciledRecord) Done() bool {
	return r.Status == StatusDone
}

// DepartmentSummary aggregates completion counts for one department.
type DepartmentSummary struct {
	Department string `json:"department"`
	Total      int    `json:"total"`
	Done       int    `json:"done"`
	Pending    int    `json:"pending"`
	Percent    int    `json:"percent"`
}

// Dataset is what a source adapter hands to the reconciliation core.
type Dataset struct {
	Attendees []Attendee
	Responses []Response

	// Rows dropped by the mapper for missing required fields.
	RejectedAttendees int
	RejectedResponses int
}

// Rejected returns the total number of dropped rows.
func (d Dataset) Rejected() int {
	return d.RejectedAttendees + d.RejectedResponses
}
