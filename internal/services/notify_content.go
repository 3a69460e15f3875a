package services

import (
	"fmt"
	"html"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"robolab/internal/config"
	"robolab/internal/domain"
	"robolab/internal/validation"
)

// maxSummaryMessage bounds the free-text message quoted in notifications
const maxSummaryMessage = 500

// Submission is the read-only view of a committed inquiry handed to the
// notification channels.
type Submission struct {
	ID        uuid.UUID
	Kind      domain.Kind
	FirstName string
	FullName  string
	Email     string
	Phone     string
	Message   string
	Source    string
	PagePath  string
	CreatedAt time.Time

	NumKids   int
	AgeGroups []string

	OrgName      string
	OrgType      string
	OrgTypeOther string
}

// NewSubmission builds the notification view of a committed write
func NewSubmission(req validation.Request, res *WriteResult) *Submission {
	c := req.ContactInfo()
	sub := &Submission{
		ID:        res.Inquiry.ID,
		Kind:      req.Kind(),
		FirstName: c.FirstName,
		FullName:  c.FullName(),
		Email:     c.Email,
		Phone:     deref(c.Phone),
		Message:   deref(c.Message),
		Source:    c.Source,
		PagePath:  deref(c.PagePath),
		CreatedAt: res.Inquiry.CreatedAt,
		NumKids:   res.NumKids,
		OrgName:   res.OrgName,
	}
	for _, g := range res.AgeGroups {
		sub.AgeGroups = append(sub.AgeGroups, g.Label)
	}
	if res.OrgType != nil {
		sub.OrgType = res.OrgType.Label
	}
	sub.OrgTypeOther = deref(res.OrgTypeOther)
	return sub
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// truncate cuts s to max runes, marking the cut with an ellipsis
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:max])) + "…"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func kindTitle(kind domain.Kind) string {
	if kind == domain.KindPartner {
		return "Partner"
	}
	return "Parent"
}

func (s *Submission) orgTypeText() string {
	if s.OrgTypeOther != "" {
		return fmt.Sprintf("%s (%s)", s.OrgType, s.OrgTypeOther)
	}
	return s.OrgType
}

// summaryLines are the structured fields shared by the chat and email alerts
func (s *Submission) summaryLines() []string {
	lines := []string{
		"Name: " + s.FullName,
		"Email: " + s.Email,
		"Phone: " + orDash(s.Phone),
	}
	switch s.Kind {
	case domain.KindParent:
		lines = append(lines,
			fmt.Sprintf("Kids: %d", s.NumKids),
			"Age groups: "+strings.Join(s.AgeGroups, ", "),
		)
	case domain.KindPartner:
		lines = append(lines,
			"Organization: "+s.OrgName,
			"Organization type: "+s.orgTypeText(),
		)
	}
	return lines
}

func internalSubject(s *Submission) string {
	return fmt.Sprintf("New %s inquiry: %s", strings.ToLower(kindTitle(s.Kind)), s.FullName)
}

func internalText(s *Submission) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New %s inquiry\n\n", strings.ToLower(kindTitle(s.Kind)))
	for _, line := range s.summaryLines() {
		b.WriteString(line + "\n")
	}
	fmt.Fprintf(&b, "\nMessage:\n%s\n\n", orDash(truncate(s.Message, maxSummaryMessage)))
	fmt.Fprintf(&b, "Page: %s\n", orDash(s.PagePath))
	fmt.Fprintf(&b, "Source: %s\n", s.Source)
	fmt.Fprintf(&b, "Inquiry ID: %s\n", s.ID)
	return b.String()
}

func chatTitle(s *Submission) string {
	return fmt.Sprintf("New %s inquiry", strings.ToLower(kindTitle(s.Kind)))
}

// chatText is Slack mrkdwn
func chatText(s *Submission) string {
	var b strings.Builder
	for _, line := range s.summaryLines() {
		name, value, _ := strings.Cut(line, ": ")
		fmt.Fprintf(&b, "*%s:* %s\n", name, value)
	}
	if s.Message != "" {
		fmt.Fprintf(&b, "*Message:*\n>%s\n", strings.ReplaceAll(truncate(s.Message, maxSummaryMessage), "\n", "\n>"))
	}
	fmt.Fprintf(&b, "_%s · %s · %s_", s.Source, orDash(s.PagePath), s.ID)
	return b.String()
}

func receiptSubject(s *Submission, brand *config.BrandingConfig) string {
	return fmt.Sprintf("We received your inquiry - %s", brand.SiteName)
}

// receiptSummary is one sentence describing the submitter's own request
func receiptSummary(s *Submission) string {
	if s.Kind == domain.KindPartner {
		return fmt.Sprintf("You asked about partnering with us on behalf of %s (%s).", s.OrgName, s.orgTypeText())
	}
	kids := "1 child"
	if s.NumKids != 1 {
		kids = fmt.Sprintf("%d children", s.NumKids)
	}
	return fmt.Sprintf("You asked about programs for %s in the %s age range.", kids, strings.Join(s.AgeGroups, ", "))
}

func signatureLines(brand *config.BrandingConfig) []string {
	var lines []string
	for _, l := range []string{brand.SignatureName, brand.SignatureTitle, brand.SiteName, brand.SignatureEmail, brand.SignatureAddress} {
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func receiptText(s *Submission, brand *config.BrandingConfig) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", s.FirstName)
	fmt.Fprintf(&b, "Thanks for reaching out to %s. We received your inquiry and will get back to you soon.\n\n", brand.SiteName)
	b.WriteString(receiptSummary(s) + "\n\n")
	if s.Message != "" {
		fmt.Fprintf(&b, "Your message:\n%s\n\n", truncate(s.Message, maxSummaryMessage))
	}
	b.WriteString("If you have anything to add, just reply to this email.\n\n")
	for _, line := range signatureLines(brand) {
		b.WriteString(line + "\n")
	}
	if brand.PrivacyText != "" {
		fmt.Fprintf(&b, "\n%s", brand.PrivacyText)
		if brand.PrivacyURL != "" {
			fmt.Fprintf(&b, " %s", brand.PrivacyURL)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func receiptHTML(s *Submission, brand *config.BrandingConfig) string {
	esc := html.EscapeString

	logo := ""
	if brand.LogoURL != "" {
		logo = fmt.Sprintf(`<img src="%s" alt="%s" width="160" style="max-width: 160px; height: auto; display: block; margin: 0 0 24px;" />`, esc(brand.LogoURL), esc(brand.SiteName))
	}

	message := ""
	if s.Message != "" {
		message = fmt.Sprintf(`<div style="background: #F8FAFC; padding: 16px; border-left: 4px solid #1C5D99; border-radius: 4px; margin: 20px 0;">
            <p style="margin: 0 0 8px; color: #0D1A2D;"><strong>Your message:</strong></p>
            <p style="margin: 0; white-space: pre-wrap;">%s</p>
        </div>`, esc(truncate(s.Message, maxSummaryMessage)))
	}

	signature := make([]string, 0, 5)
	for _, l := range signatureLines(brand) {
		signature = append(signature, esc(l))
	}

	privacy := ""
	if brand.PrivacyText != "" {
		text := esc(brand.PrivacyText)
		if brand.PrivacyURL != "" {
			text = fmt.Sprintf(`<a href="%s" style="color: #64748B;">%s</a>`, esc(brand.PrivacyURL), text)
		}
		privacy = fmt.Sprintf(`<p style="color: #64748B; font-size: 12px; margin-top: 32px;">%s</p>`, text)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #334155;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        %s
        <p>Hi %s,</p>
        <p>Thanks for reaching out to %s. We received your inquiry and will get back to you soon.</p>
        <p>%s</p>
        %s
        <p>If you have anything to add, just reply to this email.</p>
        <p style="margin-top: 32px;">%s</p>
        %s
    </div>
</body>
</html>`,
		esc(receiptSubject(s, brand)),
		logo,
		esc(s.FirstName),
		esc(brand.SiteName),
		esc(receiptSummary(s)),
		message,
		strings.Join(signature, "<br>"),
		privacy,
	)
}
