package storage

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/civic-stack/grievance-portal/src/portal/perr"
	"github.com/civic-stack/grievance-portal/src/portal/types"
)

// Service is the MySQL-backed Storage.
type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

func (s *Service) FindUser(id string) (*types.User, error) {
	var u types.User
	err := s.DB.First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, perr.NotFound("user", id)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Service) SaveUser(u *types.User) error {
	return s.DB.Save(u).Error
}

func (s *Service) CreateComplaint(c *types.Complaint) error {
	if err := s.DB.Create(c).Error; err != nil {
		log.Printf("ERROR: create complaint: %v", err)
		return err
	}
	return nil
}

func (s *Service) FindComplaint(id string) (*types.Complaint, error) {
	var c types.Complaint
	err := s.DB.Preload("User").First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, perr.NotFound("complaint", id)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Service) UpdateComplaintStatus(id, status string) error {
	res := s.DB.Model(&types.Complaint{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return perr.NotFound("complaint", id)
	}
	return nil
}

func (s *Service) ComplaintsByOwner(ownerID string) ([]types.Complaint, error) {
	var cs []types.Complaint
	err := s.DB.Where("user_id = ?", ownerID).
		Order("created_at desc").
		Find(&cs).Error
	return cs, err
}

func (s *Service) AllComplaints() ([]types.Complaint, error) {
	var cs []types.Complaint
	err := s.DB.Preload("User").
		Order("created_at desc").
		Find(&cs).Error
	return cs, err
}

func (s *Service) FilterComplaints(f ComplaintFilter) ([]types.Complaint, error) {
	q := s.DB.Preload("User").Order("created_at desc")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.DateFrom != nil {
		q = q.Where("created_at >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q = q.Where("created_at <= ?", *f.DateTo)
	}
	var cs []types.Complaint
	err := q.Find(&cs).Error
	return cs, err
}

func (s *Service) CreateMessage(m *types.ComplaintMessage) error {
	if err := s.DB.Create(m).Error; err != nil {
		log.Printf("ERROR: create message for complaint %s: %v", m.ComplaintID, err)
		return err
	}
	return nil
}

func (s *Service) MessagesForComplaint(complaintID string) ([]types.ComplaintMessage, error) {
	var msgs []types.ComplaintMessage
	err := s.DB.Where("complaint_id = ?", complaintID).
		Order("created_at asc").
		Find(&msgs).Error
	return msgs, err
}

func (s *Service) CreateEscalation(e *types.Escalation) error {
	if err := s.DB.Create(e).Error; err != nil {
		log.Printf("ERROR: create escalation for complaint %s: %v", e.ComplaintID, err)
		return err
	}
	return nil
}

func (s *Service) AllEscalations() ([]types.Escalation, error) {
	var es []types.Escalation
	err := s.DB.Preload("Complaint").Preload("FromAdmin").
		Order("created_at desc").
		Find(&es).Error
	return es, err
}
