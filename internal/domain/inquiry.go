package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Kind discriminates parent and partner inquiries
type Kind string

const (
	KindParent  Kind = "parent"
	KindPartner Kind = "partner"
)

// Status is the admin triage state of an inquiry
type Status string

const (
	StatusNew      Status = "new"
	StatusRead     Status = "read"
	StatusArchived Status = "archived"
)

// Statuses lists every accepted status value
var Statuses = []Status{StatusNew, StatusRead, StatusArchived}

// ParseStatus returns the Status for s, or false when s is not one of Statuses
func ParseStatus(s string) (Status, bool) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// Inquiry is one parent or partner submission. Kind never changes after
// the row is created.
type Inquiry struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Kind            Kind      `gorm:"type:varchar(16);not null;index" json:"kind"`
	FirstName       string    `gorm:"not null" json:"first_name"`
	LastName        string    `gorm:"not null" json:"last_name"`
	FullName        string    `gorm:"not null;index" json:"full_name"`
	Email           string    `gorm:"not null;index" json:"email"`
	Phone           *string   `json:"phone"`
	Message         *string   `gorm:"type:text" json:"message"`
	NewsletterOptIn bool      `gorm:"not null" json:"newsletter_opt_in"`
	Consent         bool      `gorm:"not null" json:"consent"`
	ConsentAt       time.Time `json:"consent_at"`
	Source          string    `gorm:"not null" json:"source"`
	PagePath        *string   `json:"page_path"`
	Status          Status    `gorm:"type:varchar(16);not null;index" json:"status"`
	SpamFlag        bool      `gorm:"not null" json:"spam_flag"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName specifies the table name for Inquiry
func (Inquiry) TableName() string {
	return "inquiries"
}

// BeforeCreate hook
func (i *Inquiry) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	if i.CreatedAt.IsZero() {
		i.CreatedAt = time.Now().UTC()
	}
	if i.UpdatedAt.IsZero() {
		i.UpdatedAt = i.CreatedAt
	}
	if i.Status == "" {
		i.Status = StatusNew
	}
	return nil
}

// InquiryParent extends an Inquiry of kind parent
type InquiryParent struct {
	InquiryID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"inquiry_id"`
	NumKids           int       `gorm:"not null" json:"num_kids"`
	PrimaryAgeGroupID uint      `gorm:"not null" json:"primary_age_group_id"`

	Inquiry         Inquiry  `gorm:"foreignKey:InquiryID;constraint:OnDelete:CASCADE" json:"-"`
	PrimaryAgeGroup AgeGroup `gorm:"foreignKey:PrimaryAgeGroupID" json:"-"`
}

// TableName specifies the table name for InquiryParent
func (InquiryParent) TableName() string {
	return "inquiry_parents"
}

// InquiryAgeGroup links a parent inquiry to each selected age group
type InquiryAgeGroup struct {
	InquiryID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"inquiry_id"`
	AgeGroupID uint      `gorm:"primaryKey;autoIncrement:false" json:"age_group_id"`

	Inquiry  Inquiry  `gorm:"foreignKey:InquiryID;constraint:OnDelete:CASCADE" json:"-"`
	AgeGroup AgeGroup `gorm:"foreignKey:AgeGroupID" json:"-"`
}

// TableName specifies the table name for InquiryAgeGroup
func (InquiryAgeGroup) TableName() string {
	return "inquiry_age_groups"
}

// InquiryPartner extends an Inquiry of kind partner
type InquiryPartner struct {
	InquiryID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"inquiry_id"`
	OrgTypeID    uint      `gorm:"not null" json:"org_type_id"`
	OrgTypeOther *string   `json:"org_type_other"`
	OrgName      string    `gorm:"not null" json:"org_name"`

	Inquiry Inquiry          `gorm:"foreignKey:InquiryID;constraint:OnDelete:CASCADE" json:"-"`
	OrgType OrganizationType `gorm:"foreignKey:OrgTypeID" json:"-"`
}

// TableName specifies the table name for InquiryPartner
func (InquiryPartner) TableName() string {
	return "inquiry_partners"
}
