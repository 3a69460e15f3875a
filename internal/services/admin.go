package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"

	"robolab/internal/domain"
	"robolab/internal/metrics"
	"robolab/internal/repository"
	apperrors "robolab/pkg/errors"
)

// AdminService lists and triages inquiries. Callers are expected to have
// checked the admin token already.
type AdminService struct {
	repo repository.Repository
}

// NewAdminService creates a new admin service
func NewAdminService(repo repository.Repository) *AdminService {
	return &AdminService{repo: repo}
}

// List returns inquiries newest first. An empty status or query is not
// applied; a status outside the enum simply matches nothing.
func (s *AdminService) List(ctx context.Context, status, query string) ([]domain.Inquiry, error) {
	filter := repository.ListFilter{
		Status: domain.Status(strings.TrimSpace(status)),
		Query:  query,
	}
	inquiries, err := s.repo.ListInquiries(ctx, filter)
	if err != nil {
		log.Printf("[ADMIN] List failed: %v", err)
		return nil, apperrors.Wrap(apperrors.ErrCodeStorage, "failed to list inquiries", err)
	}
	log.Printf("[ADMIN] List successful: status=%q, returned %d inquiries", filter.Status, len(inquiries))
	return inquiries, nil
}

// Get returns one inquiry with its detail rows
func (s *AdminService) Get(ctx context.Context, id string) (*repository.InquiryDetail, error) {
	inquiryID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrCodeNotFound, "inquiry not found")
	}
	detail, err := s.repo.GetInquiry(ctx, inquiryID)
	if err != nil {
		if errors.Is(err, repository.ErrInquiryNotFound) {
			return nil, apperrors.Wrap(apperrors.ErrCodeNotFound, "inquiry not found", err)
		}
		log.Printf("[ADMIN] Get failed: id=%s: %v", id, err)
		return nil, apperrors.Wrap(apperrors.ErrCodeStorage, "failed to get inquiry", err)
	}
	return detail, nil
}

// SetStatus moves an inquiry to status. The value is checked before
// storage is touched.
func (s *AdminService) SetStatus(ctx context.Context, id, status string) error {
	newStatus, ok := domain.ParseStatus(status)
	if !ok {
		log.Printf("[ADMIN] SetStatus rejected: id=%s, status=%q", id, status)
		return apperrors.New(apperrors.ErrCodeInvalidStatus, "invalid_status")
	}

	inquiryID, err := uuid.Parse(id)
	if err != nil {
		return apperrors.New(apperrors.ErrCodeNotFound, "inquiry not found")
	}

	if err := s.repo.UpdateInquiryStatus(ctx, inquiryID, newStatus); err != nil {
		if errors.Is(err, repository.ErrInquiryNotFound) {
			return apperrors.Wrap(apperrors.ErrCodeNotFound, "inquiry not found", err)
		}
		log.Printf("[ADMIN] SetStatus failed: id=%s: %v", id, err)
		return apperrors.Wrap(apperrors.ErrCodeStorage, "failed to update status", err)
	}

	log.Printf("[ADMIN] SetStatus successful: id=%s, status=%s", id, newStatus)
	metrics.RecordStatusChange(string(newStatus))
	return nil
}
