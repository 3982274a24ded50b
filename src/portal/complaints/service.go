package complaints

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/civic-stack/grievance-portal/src/portal/perr"
	"github.com/civic-stack/grievance-portal/src/portal/storage"
	"github.com/civic-stack/grievance-portal/src/portal/types"
)

// SubmitInput carries a new complaint. MediaURL is already resolved by the
// media collaborator; SubmitterID is the authenticated caller, if any.
type SubmitInput struct {
	SubmissionType string
	Subject        string
	Description    string
	MediaURL       string
	SubmitterID    string
}

type Service struct {
	store     storage.Storage
	sanitizer *bluemonday.Policy
}

func NewService(store storage.Storage) *Service {
	return &Service{
		store:     store,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Submit registers a complaint with status pending. Anonymous submissions
// discard any caller-supplied submitter id: the submission type is
// authoritative, and anonymity cannot be reversed later.
func (s *Service) Submit(in SubmitInput) (*types.Complaint, error) {
	if !types.ValidSubmissionType(in.SubmissionType) {
		return nil, perr.Validation("submissionType must be %q or %q", types.SubmissionPublic, types.SubmissionAnonymous)
	}

	subject := strings.TrimSpace(s.sanitizer.Sanitize(in.Subject))
	description := strings.TrimSpace(s.sanitizer.Sanitize(in.Description))
	if subject == "" {
		return nil, perr.Validation("subject is required")
	}
	if description == "" {
		return nil, perr.Validation("description is required")
	}

	var userID *string
	if in.SubmissionType == types.SubmissionPublic {
		if in.SubmitterID == "" {
			return nil, perr.Validation("public submissions require an authenticated submitter")
		}
		id := in.SubmitterID
		userID = &id
	}

	c := &types.Complaint{
		SubmissionType: in.SubmissionType,
		Subject:        subject,
		Description:    description,
		MediaURL:       in.MediaURL,
		Status:         types.StatusPending,
		UserID:         userID,
	}
	if err := s.store.CreateComplaint(c); err != nil {
		return nil, err
	}
	return c, nil
}

// SetStatus moves a complaint to any of the three statuses. There is no
// transition graph: admins may reopen or resolve at their discretion.
func (s *Service) SetStatus(complaintID, status string) (*types.Complaint, error) {
	if !types.ValidStatus(status) {
		return nil, perr.Validation("status must be one of %q, %q, %q",
			types.StatusPending, types.StatusInProgress, types.StatusResolved)
	}
	if err := s.store.UpdateComplaintStatus(complaintID, status); err != nil {
		return nil, err
	}
	return s.store.FindComplaint(complaintID)
}

func (s *Service) GetByID(complaintID string) (*types.Complaint, error) {
	return s.store.FindComplaint(complaintID)
}

func (s *Service) ListForOwner(ownerID string) ([]types.Complaint, error) {
	return s.store.ComplaintsByOwner(ownerID)
}

func (s *Service) ListAll() ([]types.Complaint, error) {
	return s.store.AllComplaints()
}

// AppendMessage adds a note to the complaint's thread. It never touches the
// complaint's status; status changes are a separate, explicit action.
func (s *Service) AppendMessage(complaintID, body string) (*types.ComplaintMessage, error) {
	body = strings.TrimSpace(s.sanitizer.Sanitize(body))
	if body == "" {
		return nil, perr.Validation("message body is required")
	}
	if _, err := s.store.FindComplaint(complaintID); err != nil {
		return nil, err
	}
	msg := &types.ComplaintMessage{ComplaintID: complaintID, Body: body}
	if err := s.store.CreateMessage(msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *Service) ListMessages(complaintID string) ([]types.ComplaintMessage, error) {
	return s.store.MessagesForComplaint(complaintID)
}
