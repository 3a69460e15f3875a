package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"robolab/internal/domain"
	"robolab/internal/metrics"
	"robolab/internal/repository"
	"robolab/internal/validation"
	apperrors "robolab/pkg/errors"
)

// WriteResult is a committed inquiry plus the reference rows it resolved
type WriteResult struct {
	Inquiry   *domain.Inquiry
	AgeGroups []domain.AgeGroup
	OrgType   *domain.OrganizationType
	NumKids   int
	OrgName   string
	// OrgTypeOther is the label as persisted, nil unless OrgType is "other"
	OrgTypeOther *string
}

// Writer persists validated requests. Every write is one transaction.
type Writer struct {
	repo repository.Repository
}

// NewWriter creates a writer over repo
func NewWriter(repo repository.Repository) *Writer {
	return &Writer{repo: repo}
}

// Write dispatches on the request variant
func (w *Writer) Write(ctx context.Context, req validation.Request) (*WriteResult, error) {
	switch r := req.(type) {
	case *validation.ParentRequest:
		return w.WriteParent(ctx, r)
	case *validation.PartnerRequest:
		return w.WritePartner(ctx, r)
	default:
		return nil, apperrors.New(apperrors.ErrCodeInternalError, fmt.Sprintf("unsupported request %T", req))
	}
}

// WriteParent stores the inquiry, its parent detail, one link per age group
// and, when opted in, the newsletter subscription.
func (w *Writer) WriteParent(ctx context.Context, req *validation.ParentRequest) (*WriteResult, error) {
	result := &WriteResult{NumKids: req.NumKids}

	err := w.repo.Transaction(ctx, func(tx repository.Repository) error {
		groups, err := tx.ResolveAgeGroupsByCode(ctx, req.AgeGroups)
		if err != nil {
			return err
		}

		inquiry := newInquiry(domain.KindParent, &req.Contact)
		inquiry.NewsletterOptIn = req.NewsletterOptIn
		if err := tx.InsertInquiry(ctx, inquiry); err != nil {
			return err
		}

		// groups is in sort order; the first one is primary
		detail := &domain.InquiryParent{
			InquiryID:         inquiry.ID,
			NumKids:           req.NumKids,
			PrimaryAgeGroupID: groups[0].ID,
		}
		if err := tx.InsertParentDetail(ctx, detail); err != nil {
			return err
		}

		ids := make([]uint, len(groups))
		for i, g := range groups {
			ids[i] = g.ID
		}
		if err := tx.InsertAgeGroupLinks(ctx, inquiry.ID, ids); err != nil {
			return err
		}

		if req.NewsletterOptIn {
			now := time.Now().UTC()
			sub := &domain.NewsletterSubscription{
				Email:        req.Email,
				FirstName:    req.FirstName,
				LastName:     req.LastName,
				Status:       domain.NewsletterSubscribed,
				DoubleOptIn:  false,
				Source:       req.Source,
				SubscribedAt: now,
				UpdatedAt:    now,
			}
			if err := tx.UpsertNewsletter(ctx, sub); err != nil {
				return err
			}
		}

		result.Inquiry = inquiry
		result.AgeGroups = groups
		return nil
	})
	if err != nil {
		return nil, writeError(domain.KindParent, err)
	}
	return result, nil
}

// WritePartner stores the inquiry and its partner detail. The free-text
// organization label is kept only for the "other" type.
func (w *Writer) WritePartner(ctx context.Context, req *validation.PartnerRequest) (*WriteResult, error) {
	result := &WriteResult{OrgName: req.OrgName}

	err := w.repo.Transaction(ctx, func(tx repository.Repository) error {
		orgType, err := tx.ResolveOrgTypeByCode(ctx, req.OrgType)
		if err != nil {
			return err
		}

		inquiry := newInquiry(domain.KindPartner, &req.Contact)
		if err := tx.InsertInquiry(ctx, inquiry); err != nil {
			return err
		}

		var other *string
		if orgType.Code == domain.OrgTypeOther {
			other = req.OrgTypeOther
		}
		detail := &domain.InquiryPartner{
			InquiryID:    inquiry.ID,
			OrgTypeID:    orgType.ID,
			OrgTypeOther: other,
			OrgName:      req.OrgName,
		}
		if err := tx.InsertPartnerDetail(ctx, detail); err != nil {
			return err
		}

		result.Inquiry = inquiry
		result.OrgType = orgType
		result.OrgTypeOther = other
		return nil
	})
	if err != nil {
		return nil, writeError(domain.KindPartner, err)
	}
	return result, nil
}

func newInquiry(kind domain.Kind, c *validation.Contact) *domain.Inquiry {
	now := time.Now().UTC()
	return &domain.Inquiry{
		Kind:      kind,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		FullName:  c.FullName(),
		Email:     c.Email,
		Phone:     c.Phone,
		Message:   c.Message,
		Consent:   c.Consent,
		ConsentAt: now,
		Source:    c.Source,
		PagePath:  c.PagePath,
		Status:    domain.StatusNew,
		SpamFlag:  false,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func writeError(kind domain.Kind, err error) error {
	if errors.Is(err, repository.ErrLookupNotFound) {
		metrics.RecordWriteFailure(string(kind), "lookup")
		return apperrors.Wrap(apperrors.ErrCodeLookupFailed, "reference code did not resolve", err)
	}
	metrics.RecordWriteFailure(string(kind), "storage")
	return apperrors.Wrap(apperrors.ErrCodeStorage, "failed to store inquiry", err)
}
