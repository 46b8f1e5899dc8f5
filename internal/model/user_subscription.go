package model

import "time"

// SubscriptionGracePeriod extends a subscription past its paid period end,
// matching the provider's own renewal grace window.
const SubscriptionGracePeriod = 3 * 24 * time.Hour

// UserSubscription mirrors the payment provider's state. It is written only
// by the provider webhook and read as a boolean "active" gate.
// swagger:model UserSubscription
type UserSubscription struct {
	BaseModel
	UserID                 uint      `gorm:"uniqueIndex;not null" json:"userId"`
	ProviderCustomerID     string    `gorm:"size:100;uniqueIndex;not null" json:"providerCustomerId"`
	ProviderSubscriptionID string    `gorm:"size:100;uniqueIndex;not null" json:"providerSubscriptionId"`
	ProviderPriceID        string    `gorm:"size:100;not null" json:"providerPriceId"`
	CurrentPeriodEnd       time.Time `gorm:"not null" json:"currentPeriodEnd"`
}

func (UserSubscription) TableName() string {
	return "user_subscriptions"
}

// ActiveAt reports whether the subscription covers the given instant,
// including the provider grace period.
func (s *UserSubscription) ActiveAt(t time.Time) bool {
	return s.CurrentPeriodEnd.Add(SubscriptionGracePeriod).After(t)
}
