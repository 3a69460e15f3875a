// Package validation turns an untrusted JSON object into a typed parent or
// partner request, collecting every violation instead of stopping at the
// first one.
package validation

import (
	"fmt"
	"strings"

	"robolab/internal/domain"
)

const (
	// PartnerSourceMarker is the source label sent by the partners page.
	// A payload carrying it is a partner inquiry even without orgType.
	PartnerSourceMarker = "partners_page"
	// DefaultParentSource is used when a parent payload omits source
	DefaultParentSource = "website"
)

// AgeGroupCodes are the age-group codes accepted syntactically. Whether a
// code is currently active is decided later against the reference table.
var AgeGroupCodes = []string{"6-9", "9-13", "13-16", "16+"}

// OrgTypeCodes are the organization-type codes accepted syntactically
var OrgTypeCodes = []string{
	"government", "nonprofit", "school", "library",
	"corporate_sponsor", "faith_community", domain.OrgTypeOther,
}

// Request is either a *ParentRequest or a *PartnerRequest
type Request interface {
	Kind() domain.Kind
	ContactInfo() *Contact
}

// Contact holds the normalized fields shared by both request kinds
type Contact struct {
	FirstName string
	LastName  string
	Email     string
	Phone     *string
	Message   *string
	Consent   bool
	Source    string
	PagePath  *string
}

// FullName joins first and last name
func (c *Contact) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// ParentRequest is a validated parent inquiry
type ParentRequest struct {
	Contact
	NumKids         int
	AgeGroups       []string
	NewsletterOptIn bool
}

// Kind implements Request
func (*ParentRequest) Kind() domain.Kind { return domain.KindParent }

// ContactInfo implements Request
func (p *ParentRequest) ContactInfo() *Contact { return &p.Contact }

// PartnerRequest is a validated partner inquiry. OrgTypeOther is kept as
// supplied; only the writer decides whether it is persisted.
type PartnerRequest struct {
	Contact
	OrgName      string
	OrgType      string
	OrgTypeOther *string
}

// Kind implements Request
func (*PartnerRequest) Kind() domain.Kind { return domain.KindPartner }

// ContactInfo implements Request
func (p *PartnerRequest) ContactInfo() *Contact { return &p.Contact }

// Failure carries every violation found in one payload
type Failure struct {
	Kind     domain.Kind
	Messages []string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("invalid %s inquiry: %s", f.Kind, strings.Join(f.Messages, "; "))
}
