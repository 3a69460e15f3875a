package services

import (
	"context"
	"log"

	"github.com/google/uuid"

	"robolab/internal/domain"
	"robolab/internal/metrics"
	"robolab/internal/repository"
	"robolab/internal/validation"
	apperrors "robolab/pkg/errors"
)

// Notifier is told about every committed inquiry. Implementations must
// return immediately.
type Notifier interface {
	NotifyInternal(kind domain.Kind, sub *Submission)
	NotifyReceipt(kind domain.Kind, sub *Submission)
}

// InquiryService runs the public intake pipeline
type InquiryService struct {
	repo     repository.Repository
	writer   *Writer
	notifier Notifier
}

// NewInquiryService creates a new inquiry service
func NewInquiryService(repo repository.Repository, notifier Notifier) *InquiryService {
	return &InquiryService{
		repo:     repo,
		writer:   NewWriter(repo),
		notifier: notifier,
	}
}

// Submit validates raw, stores it and hands it to the notifier. Errors are
// *apperrors.AppError; validation failures wrap a *validation.Failure.
func (s *InquiryService) Submit(ctx context.Context, raw map[string]any) (uuid.UUID, error) {
	req, err := validation.Validate(raw)
	if err != nil {
		kind := validation.Classify(raw)
		log.Printf("[INQUIRY] Submit rejected: kind=%s: %v", kind, err)
		metrics.RecordValidationFailure(string(kind))
		return uuid.Nil, apperrors.Wrap(apperrors.ErrCodeValidation, "invalid inquiry", err)
	}

	contact := req.ContactInfo()
	log.Printf("[INQUIRY] Submit request: kind=%s, email=%s", req.Kind(), contact.Email)

	res, err := s.writer.Write(ctx, req)
	if err != nil {
		log.Printf("[INQUIRY] Submit failed: kind=%s, email=%s: %v", req.Kind(), contact.Email, err)
		return uuid.Nil, err
	}

	log.Printf("[INQUIRY] Submit successful: id=%s, kind=%s", res.Inquiry.ID, req.Kind())
	metrics.RecordSubmission(string(req.Kind()))

	sub := NewSubmission(req, res)
	s.notifier.NotifyInternal(req.Kind(), sub)
	s.notifier.NotifyReceipt(req.Kind(), sub)

	return res.Inquiry.ID, nil
}

// AgeGroups lists the active age groups in display order
func (s *InquiryService) AgeGroups(ctx context.Context) ([]domain.AgeGroup, error) {
	groups, err := s.repo.ListActiveAgeGroups(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeStorage, "failed to list age groups", err)
	}
	return groups, nil
}

// OrgTypes lists the active organization types in display order
func (s *InquiryService) OrgTypes(ctx context.Context) ([]domain.OrganizationType, error) {
	types, err := s.repo.ListActiveOrgTypes(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeStorage, "failed to list organization types", err)
	}
	return types, nil
}
