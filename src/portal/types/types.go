package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Complaint status values. Stored and served as these literal tokens.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
)

// Submission types.
const (
	SubmissionPublic    = "public"
	SubmissionAnonymous = "anonymous"
)

// Escalation status values.
const (
	EscalationPending  = "pending"
	EscalationInReview = "in_review"
	EscalationResolved = "resolved"
)

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusInProgress || s == StatusResolved
}

func ValidSubmissionType(s string) bool {
	return s == SubmissionPublic || s == SubmissionAnonymous
}

// Identity is the per-request authenticated caller, as carried by the
// identity collaborator's token. Empty ID means no identity (anonymous).
type Identity struct {
	ID    string
	Role  string
	Email string
	Name  string
}

func (i Identity) Known() bool { return i.ID != "" }

// Users
type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	Email     string    `gorm:"size:256;uniqueIndex;not null" json:"email"`
	Phone     string    `gorm:"size:32" json:"phone,omitempty"`
	Role      string    `gorm:"size:16;not null;default:user" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Complaints
type Complaint struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	SubmissionType string    `gorm:"size:16;not null" json:"submissionType"` // public|anonymous
	Subject        string    `gorm:"size:255;not null" json:"subject"`
	Description    string    `gorm:"type:text;not null" json:"description"`
	MediaURL       string    `gorm:"size:512" json:"mediaUrl,omitempty"`
	Status         string    `gorm:"size:16;not null;default:pending;index" json:"status"`
	UserID         *string   `gorm:"size:36;index" json:"userId"` // nil iff anonymous
	CreatedAt      time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (c *Complaint) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Messages on a complaint thread. Append-only: rows are never edited or
// deleted, display order is created_at ascending.
type ComplaintMessage struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	ComplaintID string    `gorm:"size:36;not null;index" json:"complaintId"`
	Body        string    `gorm:"type:text;not null" json:"body"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (m *ComplaintMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// Escalations hand a complaint to an external authority. A complaint may
// accumulate any number of them; older records are kept as history. Status
// is reserved for future tracking and stays at its default today.
type Escalation struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	ComplaintID    string    `gorm:"size:36;not null;index" json:"complaintId"`
	FromAdminID    string    `gorm:"size:36;not null" json:"fromAdminId"`
	AuthorityName  string    `gorm:"size:128;not null" json:"authorityName"`
	AuthorityEmail string    `gorm:"size:256;not null" json:"authorityEmail"`
	Reason         string    `gorm:"type:text" json:"reason,omitempty"`
	Status         string    `gorm:"size:16;not null;default:pending" json:"status"`
	CreatedAt      time.Time `json:"createdAt"`

	Complaint *Complaint `gorm:"foreignKey:ComplaintID" json:"complaint,omitempty"`
	FromAdmin *User      `gorm:"foreignKey:FromAdminID" json:"fromAdmin,omitempty"`
}

func (e *Escalation) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Status == "" {
		e.Status = EscalationPending
	}
	return nil
}
