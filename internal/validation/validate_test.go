package validation

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"robolab/internal/domain"
)

func decode(t *testing.T, body string) map[string]any {
	t.Helper()
	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &raw))
	return raw
}

func requireFailure(t *testing.T, err error) *Failure {
	t.Helper()
	require.Error(t, err)
	var failure *Failure
	require.ErrorAs(t, err, &failure)
	return failure
}

func mentions(messages []string, field string) bool {
	for _, m := range messages {
		if strings.Contains(m, field) {
			return true
		}
	}
	return false
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		body string
		want domain.Kind
	}{
		{"org type present", `{"orgType":"school"}`, domain.KindPartner},
		{"org type null still counts", `{"orgType":null}`, domain.KindPartner},
		{"partner source marker", `{"source":"partners_page"}`, domain.KindPartner},
		{"other source", `{"source":"home_hero"}`, domain.KindParent},
		{"empty payload", `{}`, domain.KindParent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(decode(t, tt.body)))
		})
	}
}

func TestValidateParentNormalizes(t *testing.T) {
	req, err := Validate(decode(t, `{
		"firstName": "  Ada ",
		"lastName": "Lovelace",
		"email": " Ada@Example.COM ",
		"phone": "",
		"ageGroups": ["9-13", "6-9", "9-13"],
		"consent": true,
		"utm_campaign": "spring"
	}`))
	require.NoError(t, err)
	require.Equal(t, domain.KindParent, req.Kind())

	parent, ok := req.(*ParentRequest)
	require.True(t, ok)
	assert.Equal(t, "Ada", parent.FirstName)
	assert.Equal(t, "Ada Lovelace", parent.FullName())
	assert.Equal(t, "ada@example.com", parent.Email)
	assert.Nil(t, parent.Phone)
	assert.Nil(t, parent.Message)
	assert.Equal(t, 1, parent.NumKids)
	assert.False(t, parent.NewsletterOptIn)
	assert.Equal(t, DefaultParentSource, parent.Source)
	assert.Equal(t, []string{"9-13", "6-9"}, parent.AgeGroups)
}

func TestValidateCollectsAllMissingFields(t *testing.T) {
	_, err := Validate(decode(t, `{}`))
	failure := requireFailure(t, err)

	assert.Equal(t, domain.KindParent, failure.Kind)
	for _, field := range []string{"firstName", "lastName", "email", "consent", "ageGroups"} {
		assert.True(t, mentions(failure.Messages, field), "expected a message about %s in %v", field, failure.Messages)
	}
	assert.Len(t, failure.Messages, 5)
}

func TestValidatePartnerCollectsAllMissingFields(t *testing.T) {
	_, err := Validate(decode(t, `{"source": "partners_page"}`))
	failure := requireFailure(t, err)

	assert.Equal(t, domain.KindPartner, failure.Kind)
	for _, field := range []string{"firstName", "lastName", "email", "consent", "orgName", "orgType"} {
		assert.True(t, mentions(failure.Messages, field), "expected a message about %s in %v", field, failure.Messages)
	}
}

func TestValidateParentBounds(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"too many kids", `{"numKids": 13}`, "numKids"},
		{"no kids", `{"numKids": 0}`, "numKids"},
		{"fractional kids", `{"numKids": 2.5}`, "numKids"},
		{"kids as string", `{"numKids": "two"}`, "numKids"},
		{"unknown age group", `{"ageGroups": ["3-5"]}`, "ageGroups[0]"},
		{"empty age groups", `{"ageGroups": []}`, "ageGroups"},
		{"age groups not a list", `{"ageGroups": "6-9"}`, "ageGroups"},
		{"consent false", `{"consent": false}`, "consent"},
		{"bad email", `{"email": "not-an-email"}`, "email"},
		{"newsletter not bool", `{"newsletterOptIn": "yes"}`, "newsletterOptIn"},
		{"long first name", `{"firstName": "` + strings.Repeat("a", 81) + `"}`, "firstName"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := decode(t, `{"firstName":"Ada","lastName":"L","email":"ada@example.com","ageGroups":["6-9"],"consent":true}`)
			for k, v := range decode(t, tt.body) {
				raw[k] = v
			}
			_, err := Validate(raw)
			failure := requireFailure(t, err)
			assert.Len(t, failure.Messages, 1, "%v", failure.Messages)
			assert.True(t, mentions(failure.Messages, tt.field), "%v", failure.Messages)
		})
	}
}

func TestValidatePartnerOtherLabel(t *testing.T) {
	base := `"firstName":"Grace","lastName":"Hopper","email":"grace@navy.mil","orgName":"Rotary","consent":true`

	_, err := Validate(decode(t, `{`+base+`,"orgType":"other"}`))
	failure := requireFailure(t, err)
	assert.True(t, mentions(failure.Messages, "orgTypeOther"))

	req, err := Validate(decode(t, `{`+base+`,"orgType":"other","orgTypeOther":"Rotary Club"}`))
	require.NoError(t, err)
	partner := req.(*PartnerRequest)
	require.NotNil(t, partner.OrgTypeOther)
	assert.Equal(t, "Rotary Club", *partner.OrgTypeOther)
	assert.Equal(t, PartnerSourceMarker, partner.Source)

	req, err = Validate(decode(t, `{`+base+`,"orgType":"school","orgTypeOther":"ignored later"}`))
	require.NoError(t, err)
	assert.Equal(t, "school", req.(*PartnerRequest).OrgType)
}

func TestValidatePartnerUnknownOrgType(t *testing.T) {
	_, err := Validate(decode(t, `{"firstName":"G","lastName":"H","email":"g@h.io","orgName":"X","orgType":"club","consent":true}`))
	failure := requireFailure(t, err)
	require.Len(t, failure.Messages, 1)
	assert.Contains(t, failure.Messages[0], "orgType")
	assert.Contains(t, failure.Error(), "invalid partner inquiry")
}
