package storage

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/civic-stack/grievance-portal/src/portal/perr"
	"github.com/civic-stack/grievance-portal/src/portal/types"
)

// Memory is an in-process Storage for tests and local development. It
// mirrors the MySQL service's defaulting (ids, timestamps, statuses) and
// its ordering guarantees, with insertion order breaking timestamp ties.
type Memory struct {
	mu          sync.RWMutex
	users       map[string]types.User
	complaints  []types.Complaint
	messages    []types.ComplaintMessage
	escalations []types.Escalation
}

func NewMemory() *Memory {
	return &Memory{users: make(map[string]types.User)}
}

func (m *Memory) FindUser(id string) (*types.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, perr.NotFound("user", id)
	}
	return &u, nil
}

func (m *Memory) SaveUser(u *types.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = types.RoleUser
	}
	m.users[u.ID] = *u
	return nil
}

func (m *Memory) CreateComplaint(c *types.Complaint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = types.StatusPending
	}
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = now
	}
	m.complaints = append(m.complaints, *c)
	return nil
}

func (m *Memory) FindComplaint(id string) (*types.Complaint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := range m.complaints {
		if m.complaints[i].ID == id {
			c := m.complaints[i]
			m.attachOwner(&c)
			return &c, nil
		}
	}
	return nil, perr.NotFound("complaint", id)
}

func (m *Memory) UpdateComplaintStatus(id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.complaints {
		if m.complaints[i].ID == id {
			m.complaints[i].Status = status
			m.complaints[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return perr.NotFound("complaint", id)
}

func (m *Memory) ComplaintsByOwner(ownerID string) ([]types.Complaint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []types.Complaint
	for i := range m.complaints {
		if m.complaints[i].UserID != nil && *m.complaints[i].UserID == ownerID {
			out = append(out, m.complaints[i])
		}
	}
	newestFirst(out)
	return out, nil
}

func (m *Memory) AllComplaints() ([]types.Complaint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.Complaint, len(m.complaints))
	copy(out, m.complaints)
	for i := range out {
		m.attachOwner(&out[i])
	}
	newestFirst(out)
	return out, nil
}

func (m *Memory) FilterComplaints(f ComplaintFilter) ([]types.Complaint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []types.Complaint
	for i := range m.complaints {
		c := m.complaints[i]
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		if f.DateFrom != nil && c.CreatedAt.Before(*f.DateFrom) {
			continue
		}
		if f.DateTo != nil && c.CreatedAt.After(*f.DateTo) {
			continue
		}
		m.attachOwner(&c)
		out = append(out, c)
	}
	newestFirst(out)
	return out, nil
}

func (m *Memory) CreateMessage(msg *types.ComplaintMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *Memory) MessagesForComplaint(complaintID string) ([]types.ComplaintMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []types.ComplaintMessage{}
	for i := range m.messages {
		if m.messages[i].ComplaintID == complaintID {
			out = append(out, m.messages[i])
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].CreatedAt.Before(out[b].CreatedAt)
	})
	return out, nil
}

func (m *Memory) CreateEscalation(e *types.Escalation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Status == "" {
		e.Status = types.EscalationPending
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	m.escalations = append(m.escalations, *e)
	return nil
}

func (m *Memory) AllEscalations() ([]types.Escalation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.Escalation, len(m.escalations))
	copy(out, m.escalations)
	for i := range out {
		for j := range m.complaints {
			if m.complaints[j].ID == out[i].ComplaintID {
				c := m.complaints[j]
				out[i].Complaint = &c
				break
			}
		}
		if u, ok := m.users[out[i].FromAdminID]; ok {
			admin := u
			out[i].FromAdmin = &admin
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].CreatedAt.After(out[b].CreatedAt)
	})
	return out, nil
}

// attachOwner expects at least a read lock to be held.
func (m *Memory) attachOwner(c *types.Complaint) {
	if c.UserID == nil {
		return
	}
	if u, ok := m.users[*c.UserID]; ok {
		owner := u
		c.User = &owner
	}
}

func newestFirst(cs []types.Complaint) {
	sort.SliceStable(cs, func(a, b int) bool {
		return cs[a].CreatedAt.After(cs[b].CreatedAt)
	})
}
