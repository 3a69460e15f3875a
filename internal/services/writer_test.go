package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"robolab/internal/config"
	"robolab/internal/database"
	"robolab/internal/domain"
	"robolab/internal/repository"
	"robolab/internal/validation"
	apperrors "robolab/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(&config.DatabaseConfig{URL: "sqlite:///" + filepath.Join(t.TempDir(), "services.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.SeedLookups(db, domain.DefaultAgeGroups, domain.DefaultOrganizationTypes))
	return db
}

func parentRequest(email string, ageGroups ...string) *validation.ParentRequest {
	return &validation.ParentRequest{
		Contact: validation.Contact{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     email,
			Consent:   true,
			Source:    validation.DefaultParentSource,
		},
		NumKids:   2,
		AgeGroups: ageGroups,
	}
}

func partnerRequest(orgType string, other *string) *validation.PartnerRequest {
	return &validation.PartnerRequest{
		Contact: validation.Contact{
			FirstName: "Grace",
			LastName:  "Hopper",
			Email:     "grace@navy.mil",
			Consent:   true,
			Source:    validation.PartnerSourceMarker,
		},
		OrgName:      "Rotary",
		OrgType:      orgType,
		OrgTypeOther: other,
	}
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestWriteParentPrimaryAgeGroupFollowsSortOrder(t *testing.T) {
	db := newTestDB(t)
	w := NewWriter(repository.NewGormRepository(db))

	res, err := w.WriteParent(context.Background(), parentRequest("ada@example.com", "9-13", "6-9"))
	require.NoError(t, err)

	var parent domain.InquiryParent
	require.NoError(t, db.Preload("PrimaryAgeGroup").First(&parent, "inquiry_id = ?", res.Inquiry.ID).Error)
	assert.Equal(t, "6-9", parent.PrimaryAgeGroup.Code)
	assert.Equal(t, 2, parent.NumKids)

	assert.EqualValues(t, 2, countRows(t, db, &domain.InquiryAgeGroup{}))
	require.Len(t, res.AgeGroups, 2)
	assert.Equal(t, "Ages 6-9", res.AgeGroups[0].Label)

	var stored domain.Inquiry
	require.NoError(t, db.First(&stored, "id = ?", res.Inquiry.ID).Error)
	assert.Equal(t, domain.KindParent, stored.Kind)
	assert.Equal(t, domain.StatusNew, stored.Status)
	assert.False(t, stored.SpamFlag)
	assert.False(t, stored.ConsentAt.IsZero())
	assert.Zero(t, countRows(t, db, &domain.NewsletterSubscription{}))
}

func TestWriteParentNewsletterUpsertsByEmail(t *testing.T) {
	db := newTestDB(t)
	w := NewWriter(repository.NewGormRepository(db))
	ctx := context.Background()

	first := parentRequest("ada@example.com", "6-9")
	first.NewsletterOptIn = true
	_, err := w.WriteParent(ctx, first)
	require.NoError(t, err)

	second := parentRequest("ada@example.com", "6-9")
	second.NewsletterOptIn = true
	second.FirstName = "Augusta"
	second.LastName = "King"
	_, err = w.WriteParent(ctx, second)
	require.NoError(t, err)

	var subs []domain.NewsletterSubscription
	require.NoError(t, db.Find(&subs).Error)
	require.Len(t, subs, 1)
	assert.Equal(t, "Augusta", subs[0].FirstName)
	assert.Equal(t, "King", subs[0].LastName)
	assert.Equal(t, domain.NewsletterSubscribed, subs[0].Status)
	assert.False(t, subs[0].DoubleOptIn)

	assert.EqualValues(t, 2, countRows(t, db, &domain.Inquiry{}))
}

func TestWriteParentInactiveAgeGroupRollsBack(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, database.SeedLookups(db,
		[]domain.AgeGroup{{Code: "16+", Label: "Ages 16+", Active: false, SortOrder: 40}}, nil))
	w := NewWriter(repository.NewGormRepository(db))

	req := parentRequest("ada@example.com", "16+")
	req.NewsletterOptIn = true
	_, err := w.WriteParent(context.Background(), req)
	require.Error(t, err)
	assert.True(t, apperrors.IsLookupFailed(err))

	assert.Zero(t, countRows(t, db, &domain.Inquiry{}))
	assert.Zero(t, countRows(t, db, &domain.InquiryParent{}))
	assert.Zero(t, countRows(t, db, &domain.InquiryAgeGroup{}))
	assert.Zero(t, countRows(t, db, &domain.NewsletterSubscription{}))
}

// failingLinks fails the join-row insert inside whatever transaction it is
// handed.
type failingLinks struct {
	repository.Repository
}

func (f failingLinks) Transaction(ctx context.Context, fn func(tx repository.Repository) error) error {
	return f.Repository.Transaction(ctx, func(tx repository.Repository) error {
		return fn(failingLinks{tx})
	})
}

func (failingLinks) InsertAgeGroupLinks(context.Context, uuid.UUID, []uint) error {
	return errors.New("disk full")
}

func TestWriteParentStorageFailureRollsBack(t *testing.T) {
	db := newTestDB(t)
	w := NewWriter(failingLinks{repository.NewGormRepository(db)})

	_, err := w.WriteParent(context.Background(), parentRequest("ada@example.com", "6-9"))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeStorage, apperrors.CodeOf(err))

	assert.Zero(t, countRows(t, db, &domain.Inquiry{}))
	assert.Zero(t, countRows(t, db, &domain.InquiryParent{}))
}

func TestWritePartnerOtherLabel(t *testing.T) {
	db := newTestDB(t)
	w := NewWriter(repository.NewGormRepository(db))
	ctx := context.Background()
	label := "Rotary Club"

	res, err := w.WritePartner(ctx, partnerRequest(domain.OrgTypeOther, &label))
	require.NoError(t, err)
	var kept domain.InquiryPartner
	require.NoError(t, db.First(&kept, "inquiry_id = ?", res.Inquiry.ID).Error)
	require.NotNil(t, kept.OrgTypeOther)
	assert.Equal(t, "Rotary Club", *kept.OrgTypeOther)
	assert.Equal(t, "Other", res.OrgType.Label)

	res, err = w.WritePartner(ctx, partnerRequest("school", &label))
	require.NoError(t, err)
	var dropped domain.InquiryPartner
	require.NoError(t, db.First(&dropped, "inquiry_id = ?", res.Inquiry.ID).Error)
	assert.Nil(t, dropped.OrgTypeOther)
	assert.Nil(t, res.OrgTypeOther)

	var stored domain.Inquiry
	require.NoError(t, db.First(&stored, "id = ?", res.Inquiry.ID).Error)
	assert.Equal(t, domain.KindPartner, stored.Kind)
	assert.False(t, stored.NewsletterOptIn)
}

func TestWritePartnerInactiveOrgType(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, database.SeedLookups(db, nil,
		[]domain.OrganizationType{{Code: "library", Label: "Library", Active: false, SortOrder: 40}}))
	w := NewWriter(repository.NewGormRepository(db))

	_, err := w.Write(context.Background(), partnerRequest("library", nil))
	require.Error(t, err)
	assert.True(t, apperrors.IsLookupFailed(err))
	assert.Zero(t, countRows(t, db, &domain.Inquiry{}))
}
