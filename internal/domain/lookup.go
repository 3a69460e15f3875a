package domain

// AgeGroup is a reference row seeded out of band
type AgeGroup struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	Code      string `gorm:"type:varchar(16);uniqueIndex;not null" json:"code"`
	Label     string `gorm:"not null" json:"label"`
	Active    bool   `gorm:"not null;index" json:"-"`
	SortOrder int    `gorm:"not null" json:"-"`
}

// TableName specifies the table name for AgeGroup
func (AgeGroup) TableName() string {
	return "age_groups"
}

// OrganizationType is a reference row seeded out of band
type OrganizationType struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	Code      string `gorm:"type:varchar(32);uniqueIndex;not null" json:"code"`
	Label     string `gorm:"not null" json:"label"`
	Active    bool   `gorm:"not null;index" json:"-"`
	SortOrder int    `gorm:"not null" json:"-"`
}

// TableName specifies the table name for OrganizationType
func (OrganizationType) TableName() string {
	return "organization_types"
}

// OrgTypeOther is the organization type code that requires a free-text label
const OrgTypeOther = "other"

// DefaultAgeGroups is the reference data shipped with the service
var DefaultAgeGroups = []AgeGroup{
	{Code: "6-9", Label: "Ages 6-9", Active: true, SortOrder: 10},
	{Code: "9-13", Label: "Ages 9-13", Active: true, SortOrder: 20},
	{Code: "13-16", Label: "Ages 13-16", Active: true, SortOrder: 30},
	{Code: "16+", Label: "Ages 16+", Active: true, SortOrder: 40},
}

// DefaultOrganizationTypes is the reference data shipped with the service
var DefaultOrganizationTypes = []OrganizationType{
	{Code: "government", Label: "Government", Active: true, SortOrder: 10},
	{Code: "nonprofit", Label: "Nonprofit", Active: true, SortOrder: 20},
	{Code: "school", Label: "School", Active: true, SortOrder: 30},
	{Code: "library", Label: "Library", Active: true, SortOrder: 40},
	{Code: "corporate_sponsor", Label: "Corporate sponsor", Active: true, SortOrder: 50},
	{Code: "faith_community", Label: "Faith community", Active: true, SortOrder: 60},
	{Code: OrgTypeOther, Label: "Other", Active: true, SortOrder: 70},
}
