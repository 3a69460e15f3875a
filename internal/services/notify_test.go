package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"robolab/internal/config"
	"robolab/internal/domain"
	"robolab/internal/worker"
)

// inlineQueue runs tasks on the caller's goroutine
type inlineQueue struct {
	submitted []string
}

func (q *inlineQueue) Submit(name string, task worker.Task) bool {
	q.submitted = append(q.submitted, name)
	task(context.Background())
	return true
}

type fakeChat struct {
	mu     sync.Mutex
	titles []string
	texts  []string
	err    error
}

func (c *fakeChat) Name() string { return "fake-chat" }

func (c *fakeChat) Send(_ context.Context, title, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.titles = append(c.titles, title)
	c.texts = append(c.texts, text)
	return c.err
}

type fakeMailer struct {
	name string
	mu   sync.Mutex
	sent []*Email
	err  error
}

func (m *fakeMailer) Name() string { return m.name }

func (m *fakeMailer) Send(_ context.Context, msg *Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

func notifyConfig() *config.NotifyConfig {
	return &config.NotifyConfig{
		SMTP:   config.SMTPConfig{To: []string{"team@robolab.test"}},
		Resend: config.ResendConfig{To: []string{"inbox@robolab.test"}, BCC: []string{"archive@robolab.test"}, ReplyTo: "hello@robolab.test"},
		Branding: config.BrandingConfig{
			SiteName:      "RoboLab",
			LogoURL:       "https://robolab.test/logo.png",
			SignatureName: "Sam Rivera",
			PrivacyText:   "We never share your details.",
			PrivacyURL:    "https://robolab.test/privacy",
		},
	}
}

func parentSubmission() *Submission {
	return &Submission{
		ID:        uuid.New(),
		Kind:      domain.KindParent,
		FirstName: "Ada",
		FullName:  "Ada Lovelace",
		Email:     "ada@example.com",
		Message:   "Does the <b>robotics</b> club meet on weekends?",
		Source:    "website",
		PagePath:  "/programs",
		CreatedAt: time.Now().UTC(),
		NumKids:   2,
		AgeGroups: []string{"Ages 6-9", "Ages 9-13"},
	}
}

func TestDispatcherPrefersRelay(t *testing.T) {
	q := &inlineQueue{}
	chat := &fakeChat{}
	relay := &fakeMailer{name: "relay"}
	provider := &fakeMailer{name: "provider"}
	d := NewDispatcher(notifyConfig(), q, Channels{Chat: chat, Relay: relay, Provider: provider})

	sub := parentSubmission()
	d.NotifyInternal(sub.Kind, sub)
	d.NotifyReceipt(sub.Kind, sub)

	require.Len(t, q.submitted, 2)
	require.Len(t, chat.titles, 1)
	assert.Contains(t, chat.texts[0], "Ada Lovelace")
	assert.Empty(t, provider.sent)

	require.Len(t, relay.sent, 2)
	internal, receipt := relay.sent[0], relay.sent[1]
	if internal.To[0] == sub.Email {
		internal, receipt = receipt, internal
	}
	assert.Equal(t, []string{"team@robolab.test"}, internal.To)
	assert.Contains(t, internal.Text, "Age groups: Ages 6-9, Ages 9-13")
	assert.Contains(t, internal.Text, sub.ID.String())

	assert.Equal(t, []string{sub.Email}, receipt.To)
	assert.NotEmpty(t, receipt.Text)
	assert.Empty(t, receipt.HTML)
	assert.Empty(t, receipt.ReplyTo)
	assert.Empty(t, receipt.BCC)
}

func TestDispatcherProviderReceipt(t *testing.T) {
	q := &inlineQueue{}
	provider := &fakeMailer{name: "provider"}
	d := NewDispatcher(notifyConfig(), q, Channels{Provider: provider})

	sub := parentSubmission()
	d.NotifyReceipt(sub.Kind, sub)

	require.Len(t, provider.sent, 1)
	receipt := provider.sent[0]
	assert.Equal(t, []string{sub.Email}, receipt.To)
	assert.Equal(t, "hello@robolab.test", receipt.ReplyTo)
	assert.Equal(t, []string{"archive@robolab.test"}, receipt.BCC)
	assert.Contains(t, receipt.HTML, "https://robolab.test/logo.png")
	assert.Contains(t, receipt.HTML, "&lt;b&gt;robotics&lt;/b&gt;")
	assert.Contains(t, receipt.Text, "Hi Ada,")
	assert.Contains(t, receipt.Text, "reply to this email")

	d.NotifyInternal(sub.Kind, sub)
	require.Len(t, provider.sent, 2)
	assert.Equal(t, []string{"inbox@robolab.test"}, provider.sent[1].To)
}

func TestDispatcherNoChannelsIsNoop(t *testing.T) {
	q := &inlineQueue{}
	d := NewDispatcher(notifyConfig(), q, Channels{})

	sub := parentSubmission()
	d.NotifyInternal(sub.Kind, sub)
	d.NotifyReceipt(sub.Kind, sub)

	assert.Empty(t, q.submitted)
}

func TestDispatcherSwallowsChannelErrors(t *testing.T) {
	q := &inlineQueue{}
	chat := &fakeChat{err: errors.New("connection refused")}
	relay := &fakeMailer{name: "relay"}
	d := NewDispatcher(notifyConfig(), q, Channels{Chat: chat, Relay: relay})

	sub := parentSubmission()
	assert.NotPanics(t, func() {
		d.NotifyInternal(sub.Kind, sub)
	})
	assert.Len(t, chat.titles, 1)
	assert.Len(t, relay.sent, 1, "a failing chat channel does not stop email")

	relay.err = errors.New("relay down")
	assert.NotPanics(t, func() {
		d.NotifyReceipt(sub.Kind, sub)
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))

	long := strings.Repeat("é", maxSummaryMessage+20)
	cut := truncate(long, maxSummaryMessage)
	assert.True(t, strings.HasSuffix(cut, "…"))
	assert.Equal(t, maxSummaryMessage+1, len([]rune(cut)))
}

func TestPartnerContent(t *testing.T) {
	sub := &Submission{
		ID:           uuid.New(),
		Kind:         domain.KindPartner,
		FirstName:    "Grace",
		FullName:     "Grace Hopper",
		Email:        "grace@navy.mil",
		Source:       "partners_page",
		OrgName:      "Rotary",
		OrgType:      "Other",
		OrgTypeOther: "Rotary Club",
	}

	assert.Equal(t, "New partner inquiry: Grace Hopper", internalSubject(sub))
	text := internalText(sub)
	assert.Contains(t, text, "Organization: Rotary")
	assert.Contains(t, text, "Organization type: Other (Rotary Club)")
	assert.Contains(t, text, "Page: -")

	brand := &notifyConfig().Branding
	assert.Contains(t, receiptText(sub, brand), "on behalf of Rotary")
	assert.Contains(t, chatText(sub), "*Organization:* Rotary")
}
