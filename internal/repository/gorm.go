package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"robolab/internal/domain"
	"robolab/internal/metrics"
)

// GormRepository implements Repository on top of gorm
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a repository over db
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// Transaction runs fn inside one database transaction. Any error returned
// by fn rolls back every write made through tx.
func (r *GormRepository) Transaction(ctx context.Context, fn func(tx Repository) error) error {
	start := time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepository{db: tx})
	})
	metrics.RecordDBQuery("transaction", time.Since(start), err)
	return err
}

// ResolveAgeGroupsByCode returns the active age groups among codes in
// reference sort order. The first row is the primary age group.
func (r *GormRepository) ResolveAgeGroupsByCode(ctx context.Context, codes []string) ([]domain.AgeGroup, error) {
	var groups []domain.AgeGroup
	if len(codes) == 0 {
		return nil, ErrLookupNotFound
	}
	err := r.db.WithContext(ctx).
		Where("code IN ? AND active = ?", codes, true).
		Order("sort_order ASC").Order("id ASC").
		Find(&groups).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve age groups: %w", err)
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("age groups %v: %w", codes, ErrLookupNotFound)
	}
	return groups, nil
}

// ResolveOrgTypeByCode returns the active organization type with code
func (r *GormRepository) ResolveOrgTypeByCode(ctx context.Context, code string) (*domain.OrganizationType, error) {
	var orgType domain.OrganizationType
	err := r.db.WithContext(ctx).
		Where("code = ? AND active = ?", code, true).
		First(&orgType).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("organization type %q: %w", code, ErrLookupNotFound)
		}
		return nil, fmt.Errorf("failed to resolve organization type: %w", err)
	}
	return &orgType, nil
}

// ListActiveAgeGroups returns active age groups in sort order
func (r *GormRepository) ListActiveAgeGroups(ctx context.Context) ([]domain.AgeGroup, error) {
	var groups []domain.AgeGroup
	if err := r.db.WithContext(ctx).Where("active = ?", true).Order("sort_order ASC").Order("id ASC").Find(&groups).Error; err != nil {
		return nil, fmt.Errorf("failed to list age groups: %w", err)
	}
	return groups, nil
}

// ListActiveOrgTypes returns active organization types in sort order
func (r *GormRepository) ListActiveOrgTypes(ctx context.Context) ([]domain.OrganizationType, error) {
	var types []domain.OrganizationType
	if err := r.db.WithContext(ctx).Where("active = ?", true).Order("sort_order ASC").Order("id ASC").Find(&types).Error; err != nil {
		return nil, fmt.Errorf("failed to list organization types: %w", err)
	}
	return types, nil
}

// InsertInquiry creates the root row; the ID is generated when unset
func (r *GormRepository) InsertInquiry(ctx context.Context, inquiry *domain.Inquiry) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(inquiry).Error; err != nil {
		return fmt.Errorf("failed to insert inquiry: %w", err)
	}
	return nil
}

// InsertParentDetail creates the parent detail row
func (r *GormRepository) InsertParentDetail(ctx context.Context, detail *domain.InquiryParent) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(detail).Error; err != nil {
		return fmt.Errorf("failed to insert parent detail: %w", err)
	}
	return nil
}

// InsertAgeGroupLinks creates one join row per age group. Existing links
// are left untouched.
func (r *GormRepository) InsertAgeGroupLinks(ctx context.Context, inquiryID uuid.UUID, ageGroupIDs []uint) error {
	for _, id := range ageGroupIDs {
		link := domain.InquiryAgeGroup{InquiryID: inquiryID, AgeGroupID: id}
		err := r.db.WithContext(ctx).
			Omit(clause.Associations).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&link).Error
		if err != nil {
			return fmt.Errorf("failed to link age group %d: %w", id, err)
		}
	}
	return nil
}

// UpsertNewsletter inserts a subscription or, when the email already
// exists, refreshes its name, status and updated_at.
func (r *GormRepository) UpsertNewsletter(ctx context.Context, sub *domain.NewsletterSubscription) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{"first_name", "last_name", "status", "updated_at"}),
		}).
		Create(sub).Error
	if err != nil {
		return fmt.Errorf("failed to upsert newsletter subscription: %w", err)
	}
	return nil
}

// InsertPartnerDetail creates the partner detail row
func (r *GormRepository) InsertPartnerDetail(ctx context.Context, detail *domain.InquiryPartner) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(detail).Error; err != nil {
		return fmt.Errorf("failed to insert partner detail: %w", err)
	}
	return nil
}

// ListInquiries returns at most MaxListRows inquiries, newest first.
// Query matches full name or email case-insensitively.
func (r *GormRepository) ListInquiries(ctx context.Context, filter ListFilter) ([]domain.Inquiry, error) {
	start := time.Now()
	query := r.db.WithContext(ctx).Model(&domain.Inquiry{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		like := "%" + escapeLike(strings.ToLower(q)) + "%"
		query = query.Where("(LOWER(full_name) LIKE ? ESCAPE '\\' OR LOWER(email) LIKE ? ESCAPE '\\')", like, like)
	}

	var inquiries []domain.Inquiry
	err := query.Order("created_at DESC").Limit(MaxListRows).Find(&inquiries).Error
	metrics.RecordDBQuery("list_inquiries", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to list inquiries: %w", err)
	}
	return inquiries, nil
}

// GetInquiry loads an inquiry with its detail rows
func (r *GormRepository) GetInquiry(ctx context.Context, id uuid.UUID) (*InquiryDetail, error) {
	db := r.db.WithContext(ctx)

	var detail InquiryDetail
	if err := db.First(&detail.Inquiry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInquiryNotFound
		}
		return nil, fmt.Errorf("failed to get inquiry: %w", err)
	}

	switch detail.Inquiry.Kind {
	case domain.KindParent:
		var parent domain.InquiryParent
		if err := db.First(&parent, "inquiry_id = ?", id).Error; err == nil {
			detail.Parent = &parent
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to get parent detail: %w", err)
		}
		err := db.Model(&domain.AgeGroup{}).
			Select("age_groups.*").
			Joins("JOIN inquiry_age_groups ON inquiry_age_groups.age_group_id = age_groups.id").
			Where("inquiry_age_groups.inquiry_id = ?", id).
			Order("age_groups.sort_order ASC").
			Find(&detail.AgeGroups).Error
		if err != nil {
			return nil, fmt.Errorf("failed to get age groups: %w", err)
		}
	case domain.KindPartner:
		var partner domain.InquiryPartner
		if err := db.Preload("OrgType").First(&partner, "inquiry_id = ?", id).Error; err == nil {
			detail.Partner = &partner
			detail.OrgType = &partner.OrgType
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to get partner detail: %w", err)
		}
	}
	return &detail, nil
}

// UpdateInquiryStatus changes status and updated_at only
func (r *GormRepository) UpdateInquiryStatus(ctx context.Context, id uuid.UUID, status domain.Status) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Inquiry{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return fmt.Errorf("failed to update inquiry status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrInquiryNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
