package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"robolab/internal/domain"
	"robolab/internal/repository"
	"robolab/internal/validation"
	apperrors "robolab/pkg/errors"
)

type recordingNotifier struct {
	internal []*Submission
	receipts []*Submission
}

func (n *recordingNotifier) NotifyInternal(_ domain.Kind, sub *Submission) {
	n.internal = append(n.internal, sub)
}

func (n *recordingNotifier) NotifyReceipt(_ domain.Kind, sub *Submission) {
	n.receipts = append(n.receipts, sub)
}

func TestSubmitParent(t *testing.T) {
	db := newTestDB(t)
	notifier := &recordingNotifier{}
	svc := NewInquiryService(repository.NewGormRepository(db), notifier)

	id, err := svc.Submit(context.Background(), map[string]any{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"email":     "Ada@Example.com",
		"ageGroups": []any{"9-13", "6-9"},
		"numKids":   float64(2),
		"message":   "Hello",
		"pagePath":  "/camps",
		"consent":   true,
	})
	require.NoError(t, err)

	require.Len(t, notifier.internal, 1)
	require.Len(t, notifier.receipts, 1)
	sub := notifier.internal[0]
	assert.Equal(t, id, sub.ID)
	assert.Equal(t, "ada@example.com", sub.Email)
	assert.Equal(t, []string{"Ages 6-9", "Ages 9-13"}, sub.AgeGroups)
	assert.Equal(t, "/camps", sub.PagePath)
	assert.Equal(t, 2, sub.NumKids)

	var stored domain.Inquiry
	require.NoError(t, db.First(&stored, "id = ?", id).Error)
	assert.Equal(t, "Ada Lovelace", stored.FullName)
	assert.Equal(t, "website", stored.Source)
}

func TestSubmitValidationFailure(t *testing.T) {
	db := newTestDB(t)
	notifier := &recordingNotifier{}
	svc := NewInquiryService(repository.NewGormRepository(db), notifier)

	_, err := svc.Submit(context.Background(), map[string]any{"source": "partners_page"})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeValidation, apperrors.CodeOf(err))

	var failure *validation.Failure
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, domain.KindPartner, failure.Kind)
	assert.NotEmpty(t, failure.Messages)

	assert.Empty(t, notifier.internal)
	assert.Zero(t, countRows(t, db, &domain.Inquiry{}))
}

func TestSubmitLookupFailureSkipsNotifications(t *testing.T) {
	db := newTestDB(t)
	notifier := &recordingNotifier{}
	svc := NewInquiryService(repository.NewGormRepository(db), notifier)

	// "other" becomes inactive, so a valid payload no longer resolves
	require.NoError(t, db.Model(&domain.OrganizationType{}).Where("code = ?", domain.OrgTypeOther).Update("active", false).Error)

	_, err := svc.Submit(context.Background(), map[string]any{
		"firstName":    "Grace",
		"lastName":     "Hopper",
		"email":        "grace@navy.mil",
		"orgName":      "Rotary",
		"orgType":      "other",
		"orgTypeOther": "Rotary Club",
		"consent":      true,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsLookupFailed(err))
	assert.Empty(t, notifier.internal)
	assert.Empty(t, notifier.receipts)
}

func TestLookups(t *testing.T) {
	svc := NewInquiryService(repository.NewGormRepository(newTestDB(t)), &recordingNotifier{})
	ctx := context.Background()

	groups, err := svc.AgeGroups(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 4)
	assert.Equal(t, "6-9", groups[0].Code)
	assert.Equal(t, "16+", groups[3].Code)

	types, err := svc.OrgTypes(ctx)
	require.NoError(t, err)
	require.Len(t, types, 7)
	assert.Equal(t, domain.OrgTypeOther, types[6].Code)
}
