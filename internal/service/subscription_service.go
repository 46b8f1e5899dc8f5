package service

import (
	"errors"
	"fmt"
	"lingo_backend/internal/model"
	"lingo_backend/internal/repository"
	"lingo_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

// SubscriptionService mirrors the payment provider's state. The mirror is
// written only from provider webhooks and consulted as a boolean gate for
// infinite hearts.
type SubscriptionService struct {
	Repo *repository.SubscriptionRepository

	// Now is replaceable in tests.
	Now func() time.Time
}

func NewSubscriptionService(repo *repository.SubscriptionRepository) *SubscriptionService {
	return &SubscriptionService{Repo: repo, Now: time.Now}
}

// Webhook event types as sent by the payment provider.
const (
	EventSubscriptionActivated = "subscription.activated"
	EventSubscriptionRenewed   = "subscription.renewed"
	EventSubscriptionCanceled  = "subscription.canceled"
)

type SubscriptionEvent struct {
	Type             string    `json:"type" binding:"required"`
	UserID           uint      `json:"userId" binding:"required"`
	CustomerID       string    `json:"customerId"`
	SubscriptionID   string    `json:"subscriptionId"`
	PriceID          string    `json:"priceId"`
	CurrentPeriodEnd time.Time `json:"currentPeriodEnd"`
}

func (s *SubscriptionService) IsActive(userID uint) bool {
	sub, err := s.Repo.FindByUser(userID)
	if err != nil {
		return false
	}
	return sub.ActiveAt(s.Now())
}

func (s *SubscriptionService) GetSubscription(userID uint) (*model.UserSubscription, bool, error) {
	sub, err := s.Repo.FindByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return sub, sub.ActiveAt(s.Now()), nil
}

// HandleEvent upserts the mirror row for activation/renewal and expires it
// on cancellation.
func (s *SubscriptionService) HandleEvent(event *SubscriptionEvent) error {
	switch event.Type {
	case EventSubscriptionActivated, EventSubscriptionRenewed:
		sub, err := s.Repo.FindByUser(event.UserID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			// The provider ids carry unique indexes; an empty id must not
			// reach the table or a second empty event collides on it.
			if event.CustomerID == "" || event.SubscriptionID == "" {
				return util.ErrMissingProviderIDs
			}
			return s.Repo.Create(&model.UserSubscription{
				UserID:                 event.UserID,
				ProviderCustomerID:     event.CustomerID,
				ProviderSubscriptionID: event.SubscriptionID,
				ProviderPriceID:        event.PriceID,
				CurrentPeriodEnd:       event.CurrentPeriodEnd,
			})
		}
		sub.ProviderPriceID = event.PriceID
		sub.CurrentPeriodEnd = event.CurrentPeriodEnd
		return s.Repo.Update(sub)

	case EventSubscriptionCanceled:
		sub, err := s.Repo.FindByUser(event.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		// Keep the row for provider reconciliation, end the period now.
		sub.CurrentPeriodEnd = s.Now().Add(-model.SubscriptionGracePeriod)
		return s.Repo.Update(sub)

	default:
		return fmt.Errorf("unknown subscription event type: %s", event.Type)
	}
}
