package validation

import (
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	goa "goa.design/goa/v3/pkg"

	"robolab/internal/domain"
)

const (
	maxNameLen     = 80
	maxEmailLen    = 254
	maxPhoneLen    = 40
	maxMessageLen  = 2000
	maxSourceLen   = 80
	maxPagePathLen = 300
	maxOrgNameLen  = 160
	maxOtherLen    = 120
	minKids        = 1
	maxKids        = 12
	maxAgeGroups   = 4
)

// Classify decides the payload kind from its shape alone: an orgType key or
// the partners-page source marks a partner inquiry.
func Classify(raw map[string]any) domain.Kind {
	if _, ok := raw["orgType"]; ok {
		return domain.KindPartner
	}
	if src, ok := raw["source"].(string); ok && strings.TrimSpace(src) == PartnerSourceMarker {
		return domain.KindPartner
	}
	return domain.KindParent
}

// Validate classifies raw and checks it against the matching schema.
// Unknown keys are ignored. On failure the error is a *Failure.
func Validate(raw map[string]any) (Request, error) {
	kind := Classify(raw)
	r := &reader{raw: raw}

	var req Request
	switch kind {
	case domain.KindPartner:
		req = r.partner()
	default:
		req = r.parent()
	}

	if len(r.errs) > 0 {
		return nil, &Failure{Kind: kind, Messages: r.errs}
	}
	return req, nil
}

func (r *reader) contact(defaultSource string) Contact {
	c := Contact{
		FirstName: r.requiredString("firstName", maxNameLen),
		LastName:  r.requiredString("lastName", maxNameLen),
		Email:     r.email("email"),
		Phone:     r.optionalString("phone", maxPhoneLen),
		Message:   r.optionalString("message", maxMessageLen),
		Consent:   r.consent("consent"),
		PagePath:  r.optionalString("pagePath", maxPagePathLen),
	}
	c.Source = defaultSource
	if src := r.optionalString("source", maxSourceLen); src != nil {
		c.Source = *src
	}
	return c
}

func (r *reader) parent() *ParentRequest {
	return &ParentRequest{
		Contact:         r.contact(DefaultParentSource),
		NumKids:         r.integer("numKids", minKids, maxKids, 1),
		AgeGroups:       r.codes("ageGroups", AgeGroupCodes, maxAgeGroups),
		NewsletterOptIn: r.boolean("newsletterOptIn", false),
	}
}

func (r *reader) partner() *PartnerRequest {
	p := &PartnerRequest{
		Contact:      r.contact(PartnerSourceMarker),
		OrgName:      r.requiredString("orgName", maxOrgNameLen),
		OrgType:      r.enum("orgType", OrgTypeCodes),
		OrgTypeOther: r.optionalString("orgTypeOther", maxOtherLen),
	}
	if p.OrgType == domain.OrgTypeOther && p.OrgTypeOther == nil {
		r.fail(goa.MissingFieldError("orgTypeOther", "body"))
	}
	return p
}

// reader pulls typed fields out of a decoded JSON object and records
// every violation it meets.
type reader struct {
	raw  map[string]any
	errs []string
}

func (r *reader) fail(err error) {
	r.errs = append(r.errs, err.Error())
}

// lookup returns the value for key; JSON null counts as absent
func (r *reader) lookup(key string) (any, bool) {
	v, ok := r.raw[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (r *reader) stringValue(key string) (string, bool) {
	v, ok := r.lookup(key)
	if !ok {
		return "", false
	}
	s, isString := v.(string)
	if !isString {
		r.fail(goa.InvalidFieldTypeError("body."+key, v, "string"))
		return "", false
	}
	return strings.TrimSpace(s), true
}

func (r *reader) requiredString(key string, max int) string {
	v, present := r.raw[key]
	if !present || v == nil {
		r.fail(goa.MissingFieldError(key, "body"))
		return ""
	}
	s, ok := r.stringValue(key)
	if !ok {
		return ""
	}
	r.checkLength(key, s, 1, max)
	return s
}

func (r *reader) optionalString(key string, max int) *string {
	s, ok := r.stringValue(key)
	if !ok || s == "" {
		return nil
	}
	r.checkLength(key, s, 0, max)
	return &s
}

func (r *reader) checkLength(key, s string, min, max int) {
	n := utf8.RuneCountInString(s)
	if n < min {
		r.fail(goa.InvalidLengthError("body."+key, s, n, min, true))
	}
	if n > max {
		r.fail(goa.InvalidLengthError("body."+key, s, n, max, false))
	}
}

func (r *reader) email(key string) string {
	s := strings.ToLower(r.requiredString(key, maxEmailLen))
	if s == "" {
		return ""
	}
	if err := goa.ValidateFormat("body."+key, s, goa.FormatEmail); err != nil {
		r.fail(err)
	}
	return s
}

func (r *reader) consent(key string) bool {
	v, ok := r.lookup(key)
	if !ok {
		r.fail(goa.MissingFieldError(key, "body"))
		return false
	}
	if b, isBool := v.(bool); !isBool || !b {
		r.fail(goa.InvalidEnumValueError("body."+key, v, []any{true}))
		return false
	}
	return true
}

func (r *reader) boolean(key string, def bool) bool {
	v, ok := r.lookup(key)
	if !ok {
		return def
	}
	b, isBool := v.(bool)
	if !isBool {
		r.fail(goa.InvalidFieldTypeError("body."+key, v, "boolean"))
		return def
	}
	return b
}

func (r *reader) integer(key string, min, max, def int) int {
	v, ok := r.lookup(key)
	if !ok {
		return def
	}
	f, isNumber := v.(float64)
	if !isNumber || f != float64(int(f)) {
		r.fail(goa.InvalidFieldTypeError("body."+key, v, "integer"))
		return def
	}
	n := int(f)
	if n < min {
		r.fail(goa.InvalidRangeError("body."+key, n, min, true))
	}
	if n > max {
		r.fail(goa.InvalidRangeError("body."+key, n, max, false))
	}
	return n
}

func (r *reader) enum(key string, allowed []string) string {
	v, present := r.raw[key]
	if !present || v == nil {
		r.fail(goa.MissingFieldError(key, "body"))
		return ""
	}
	s, ok := r.stringValue(key)
	if !ok {
		return ""
	}
	if !slices.Contains(allowed, s) {
		r.fail(goa.InvalidEnumValueError("body."+key, s, toAny(allowed)))
	}
	return s
}

// codes reads a required array of enumerated strings. Duplicates collapse
// onto their first occurrence.
func (r *reader) codes(key string, allowed []string, max int) []string {
	v, ok := r.lookup(key)
	if !ok {
		r.fail(goa.MissingFieldError(key, "body"))
		return nil
	}
	items, isArray := v.([]any)
	if !isArray {
		r.fail(goa.InvalidFieldTypeError("body."+key, v, "array"))
		return nil
	}
	if len(items) < 1 {
		r.fail(goa.InvalidLengthError("body."+key, items, len(items), 1, true))
	}
	if len(items) > max {
		r.fail(goa.InvalidLengthError("body."+key, items, len(items), max, false))
	}

	var out []string
	for i, item := range items {
		name := "body." + key + "[" + strconv.Itoa(i) + "]"
		s, isString := item.(string)
		if !isString {
			r.fail(goa.InvalidFieldTypeError(name, item, "string"))
			continue
		}
		s = strings.TrimSpace(s)
		if !slices.Contains(allowed, s) {
			r.fail(goa.InvalidEnumValueError(name, s, toAny(allowed)))
			continue
		}
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

func toAny(list []string) []any {
	out := make([]any, len(list))
	for i, v := range list {
		out[i] = v
	}
	return out
}
