package domain

import "time"

// NewsletterSubscribed is the only status written by the intake path
const NewsletterSubscribed = "subscribed"

// NewsletterSubscription is keyed by email and lives independently of any
// inquiry; repeated opt-ins update the existing row.
type NewsletterSubscription struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Status       string    `gorm:"type:varchar(16);not null" json:"status"`
	DoubleOptIn  bool      `gorm:"not null" json:"double_opt_in"`
	Source       string    `json:"source"`
	SubscribedAt time.Time `json:"subscribed_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for NewsletterSubscription
func (NewsletterSubscription) TableName() string {
	return "newsletter_subscriptions"
}
