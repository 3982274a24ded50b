package storage

import (
	"time"

	"github.com/civic-stack/grievance-portal/src/portal/types"
)

// ComplaintFilter narrows complaint listings for the export paths. Zero
// fields are ignored; set fields AND-combine.
type ComplaintFilter struct {
	Status   string
	DateFrom *time.Time
	DateTo   *time.Time
}

// Storage is the durable record of users, complaints, message threads and
// escalations. Implementations must return perr.NotFoundError for lookups
// that miss, never a bare driver error.
type Storage interface {
	FindUser(id string) (*types.User, error)
	SaveUser(u *types.User) error

	CreateComplaint(c *types.Complaint) error
	// FindComplaint resolves a complaint with its owner preloaded, if any.
	FindComplaint(id string) (*types.Complaint, error)
	UpdateComplaintStatus(id, status string) error
	// ComplaintsByOwner lists a user's complaints, newest first.
	ComplaintsByOwner(ownerID string) ([]types.Complaint, error)
	// AllComplaints lists every complaint with owner preloaded, newest first.
	AllComplaints() ([]types.Complaint, error)
	// FilterComplaints lists complaints matching f, owner preloaded, newest first.
	FilterComplaints(f ComplaintFilter) ([]types.Complaint, error)

	CreateMessage(m *types.ComplaintMessage) error
	// MessagesForComplaint lists a thread oldest first. An empty thread is
	// an empty slice, not an error.
	MessagesForComplaint(complaintID string) ([]types.ComplaintMessage, error)

	CreateEscalation(e *types.Escalation) error
	// AllEscalations lists escalations with parent complaint and acting
	// admin preloaded, newest first.
	AllEscalations() ([]types.Escalation, error)
}
