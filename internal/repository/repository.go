// Package repository is the storage surface of the intake pipeline. The
// transactional writer and the admin surface depend on the Repository
// interface; GormRepository backs it with PostgreSQL or SQLite.
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"robolab/internal/domain"
)

var (
	// ErrLookupNotFound is returned when no active reference row matches
	ErrLookupNotFound = errors.New("reference code not found or inactive")
	// ErrInquiryNotFound is returned when an inquiry id does not exist
	ErrInquiryNotFound = errors.New("inquiry not found")
)

// MaxListRows caps every admin listing
const MaxListRows = 200

// ListFilter narrows an admin listing. Zero values mean "no filter".
type ListFilter struct {
	Status domain.Status
	Query  string
}

// InquiryDetail is an inquiry with its kind-specific rows
type InquiryDetail struct {
	Inquiry   domain.Inquiry
	Parent    *domain.InquiryParent
	AgeGroups []domain.AgeGroup
	Partner   *domain.InquiryPartner
	OrgType   *domain.OrganizationType
}

// Repository is implemented by GormRepository. Methods called on the value
// handed to Transaction's callback run inside that transaction.
type Repository interface {
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	ResolveAgeGroupsByCode(ctx context.Context, codes []string) ([]domain.AgeGroup, error)
	ResolveOrgTypeByCode(ctx context.Context, code string) (*domain.OrganizationType, error)
	ListActiveAgeGroups(ctx context.Context) ([]domain.AgeGroup, error)
	ListActiveOrgTypes(ctx context.Context) ([]domain.OrganizationType, error)

	InsertInquiry(ctx context.Context, inquiry *domain.Inquiry) error
	InsertParentDetail(ctx context.Context, detail *domain.InquiryParent) error
	InsertAgeGroupLinks(ctx context.Context, inquiryID uuid.UUID, ageGroupIDs []uint) error
	UpsertNewsletter(ctx context.Context, sub *domain.NewsletterSubscription) error
	InsertPartnerDetail(ctx context.Context, detail *domain.InquiryPartner) error

	ListInquiries(ctx context.Context, filter ListFilter) ([]domain.Inquiry, error)
	GetInquiry(ctx context.Context, id uuid.UUID) (*InquiryDetail, error)
	UpdateInquiryStatus(ctx context.Context, id uuid.UUID, status domain.Status) error
}
