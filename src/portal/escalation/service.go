package escalation

import (
	"context"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"time"

	"github.com/civic-stack/grievance-portal/src/portal/notify"
	"github.com/civic-stack/grievance-portal/src/portal/perr"
	"github.com/civic-stack/grievance-portal/src/portal/storage"
	"github.com/civic-stack/grievance-portal/src/portal/types"
)

const dispatchTimeout = 30 * time.Second

// EventPublisher fans escalation events out to out-of-process consumers.
type EventPublisher interface {
	PublishEscalation(ctx context.Context, payload map[string]interface{}) error
}

type Service struct {
	store    storage.Storage
	notifier notify.Notifier
	events   EventPublisher // optional
}

func NewService(store storage.Storage, notifier notify.Notifier, events EventPublisher) *Service {
	return &Service{store: store, notifier: notifier, events: events}
}

// Escalate hands a complaint to an external authority. The operation is
// complete once the escalation record and the status flip to in_progress
// are durable; the two notifications and the stream event run detached and
// their failures are only logged. An email provider outage must never lose
// a grievance.
func (s *Service) Escalate(ctx context.Context, complaintID, actorID, authorityName, authorityEmail, reason string) (*types.Escalation, error) {
	authorityName = strings.TrimSpace(authorityName)
	if authorityName == "" {
		return nil, perr.Validation("authorityName is required")
	}
	if _, err := mail.ParseAddress(authorityEmail); err != nil {
		return nil, perr.Validation("authorityEmail is not a valid address")
	}

	c, err := s.store.FindComplaint(complaintID)
	if err != nil {
		return nil, err
	}

	e := &types.Escalation{
		ComplaintID:    c.ID,
		FromAdminID:    actorID,
		AuthorityName:  authorityName,
		AuthorityEmail: authorityEmail,
		Reason:         strings.TrimSpace(reason),
		Status:         types.EscalationPending,
	}
	if err := s.store.CreateEscalation(e); err != nil {
		return nil, err
	}

	// Escalation always signals active handling, whatever the prior status.
	if err := s.store.UpdateComplaintStatus(c.ID, types.StatusInProgress); err != nil {
		return nil, err
	}
	c.Status = types.StatusInProgress

	go s.dispatch(c, e)

	return e, nil
}

func (s *Service) ListAll() ([]types.Escalation, error) {
	return s.store.AllEscalations()
}

// dispatch runs detached from the request: authority mail, owner mail when
// a reachable owner exists, and the stream event. Each step is best-effort.
func (s *Service) dispatch(c *types.Complaint, e *types.Escalation) {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	if err := s.notifier.Send(ctx, e.AuthorityEmail,
		"Complaint Escalation: "+c.Subject,
		authorityBody(c, e),
	); err != nil {
		log.Printf("ERROR: escalation %s: notify authority %s: %v", e.ID, e.AuthorityEmail, perr.Dependency("mail", err))
	}

	if c.User != nil && c.User.Email != "" {
		if err := s.notifier.Send(ctx, c.User.Email,
			"Your Complaint has been Escalated",
			ownerBody(c, e),
		); err != nil {
			log.Printf("ERROR: escalation %s: notify owner: %v", e.ID, perr.Dependency("mail", err))
		}
	}

	if s.events != nil {
		err := s.events.PublishEscalation(ctx, map[string]interface{}{
			"escalationId": e.ID,
			"complaintId":  c.ID,
			"subject":      c.Subject,
			"authority":    e.AuthorityName,
			"admin":        e.FromAdminID,
			"time":         e.CreatedAt.Unix(),
		})
		if err != nil {
			log.Printf("ERROR: escalation %s: publish event: %v", e.ID, err)
		}
	}
}

func authorityBody(c *types.Complaint, e *types.Escalation) string {
	reason := e.Reason
	if reason == "" {
		reason = "Not specified"
	}
	return fmt.Sprintf(`<h3>New Complaint Escalated to You</h3>
<p><b>Complaint ID:</b> %s</p>
<p><b>Subject:</b> %s</p>
<p><b>Description:</b> %s</p>
<p><b>Escalated By:</b> Admin ID %s</p>
<p><b>Reason:</b> %s</p>
<p>Please take necessary action on this complaint.</p>`,
		c.ID, c.Subject, c.Description, e.FromAdminID, reason)
}

func ownerBody(c *types.Complaint, e *types.Escalation) string {
	name := "User"
	if c.User != nil && c.User.Name != "" {
		name = c.User.Name
	}
	return fmt.Sprintf(`<h3>Dear %s,</h3>
<p>Your complaint (<b>%s</b>) has been escalated to <b>%s</b> for further action.</p>
<p>We appreciate your patience while it is being reviewed.</p>
<p>Regards,<br>Complaint Management Team</p>`,
		name, c.Subject, e.AuthorityName)
}
