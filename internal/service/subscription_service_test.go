package service

import (
	"errors"
	"lingo_backend/internal/model"
	"lingo_backend/internal/repository"
	"lingo_backend/internal/util"
	"testing"
	"time"
)

func newSubscriptionService(t *testing.T) (*SubscriptionService, time.Time) {
	t.Helper()
	db := newTestDB(t)
	svc := NewSubscriptionService(repository.NewSubscriptionRepository(db))
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }
	return svc, now
}

func TestActiveAtHonorsGracePeriod(t *testing.T) {
	end := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	sub := &model.UserSubscription{CurrentPeriodEnd: end}

	if !sub.ActiveAt(end.Add(-time.Hour)) {
		t.Fatalf("inactive before period end")
	}
	if !sub.ActiveAt(end.Add(2 * 24 * time.Hour)) {
		t.Fatalf("inactive inside the grace window")
	}
	if sub.ActiveAt(end.Add(model.SubscriptionGracePeriod)) {
		t.Fatalf("active after the grace window closed")
	}
}

func TestHandleEventActivateThenRenew(t *testing.T) {
	svc, now := newSubscriptionService(t)

	err := svc.HandleEvent(&SubscriptionEvent{
		Type:             EventSubscriptionActivated,
		UserID:           1,
		CustomerID:       "cus_1",
		SubscriptionID:   "sub_1",
		PriceID:          "price_monthly",
		CurrentPeriodEnd: now.Add(30 * 24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if !svc.IsActive(1) {
		t.Fatalf("subscription not active after activation")
	}

	renewed := now.Add(60 * 24 * time.Hour)
	err = svc.HandleEvent(&SubscriptionEvent{
		Type:             EventSubscriptionRenewed,
		UserID:           1,
		CustomerID:       "cus_1",
		SubscriptionID:   "sub_1",
		PriceID:          "price_yearly",
		CurrentPeriodEnd: renewed,
	})
	if err != nil {
		t.Fatalf("renew: %v", err)
	}

	sub, active, err := svc.GetSubscription(1)
	if err != nil {
		t.Fatalf("GetSubscription: %v", err)
	}
	if !active || !sub.CurrentPeriodEnd.Equal(renewed) || sub.ProviderPriceID != "price_yearly" {
		t.Fatalf("renewal not applied in place: %+v", sub)
	}
}

func TestHandleEventCancelExpiresImmediately(t *testing.T) {
	svc, now := newSubscriptionService(t)

	if err := svc.HandleEvent(&SubscriptionEvent{
		Type:             EventSubscriptionActivated,
		UserID:           1,
		CustomerID:       "cus_1",
		SubscriptionID:   "sub_1",
		PriceID:          "price_monthly",
		CurrentPeriodEnd: now.Add(30 * 24 * time.Hour),
	}); err != nil {
		t.Fatalf("activate: %v", err)
	}

	if err := svc.HandleEvent(&SubscriptionEvent{
		Type:   EventSubscriptionCanceled,
		UserID: 1,
	}); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if svc.IsActive(1) {
		t.Fatalf("subscription still active after cancellation")
	}

	// The mirror row survives for provider reconciliation.
	sub, active, err := svc.GetSubscription(1)
	if err != nil {
		t.Fatalf("GetSubscription: %v", err)
	}
	if sub == nil || active {
		t.Fatalf("expected expired row, got %+v active=%v", sub, active)
	}
}

func TestHandleEventCancelUnknownUserIsNoop(t *testing.T) {
	svc, _ := newSubscriptionService(t)

	if err := svc.HandleEvent(&SubscriptionEvent{Type: EventSubscriptionCanceled, UserID: 42}); err != nil {
		t.Fatalf("cancel for unknown user: %v", err)
	}
}

func TestHandleEventRequiresProviderIDs(t *testing.T) {
	svc, now := newSubscriptionService(t)

	// Two activations without provider ids would collide on the empty-string
	// unique index; neither may create a row.
	for _, userID := range []uint{1, 2} {
		err := svc.HandleEvent(&SubscriptionEvent{
			Type:             EventSubscriptionActivated,
			UserID:           userID,
			CurrentPeriodEnd: now.Add(30 * 24 * time.Hour),
		})
		if !errors.Is(err, util.ErrMissingProviderIDs) {
			t.Fatalf("expected ErrMissingProviderIDs for user %d, got %v", userID, err)
		}
		if sub, _, err := svc.GetSubscription(userID); err != nil || sub != nil {
			t.Fatalf("row created despite rejection: %+v, %v", sub, err)
		}
	}
}

func TestHandleEventRejectsUnknownType(t *testing.T) {
	svc, _ := newSubscriptionService(t)

	if err := svc.HandleEvent(&SubscriptionEvent{Type: "subscription.paused", UserID: 1}); err == nil {
		t.Fatalf("expected error for unknown event type")
	}
}

func TestIsActiveWithoutSubscription(t *testing.T) {
	svc, _ := newSubscriptionService(t)

	if svc.IsActive(7) {
		t.Fatalf("active without a subscription row")
	}
}
