package repository

import (
	"lingo_backend/internal/model"

	"gorm.io/gorm"
)

type SubscriptionRepository struct {
	DB *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{DB: db}
}

func (r *SubscriptionRepository) FindByUser(userID uint) (*model.UserSubscription, error) {
	var sub model.UserSubscription
	err := r.DB.Where("user_id = ?", userID).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepository) FindByProviderSubscriptionID(id string) (*model.UserSubscription, error) {
	var sub model.UserSubscription
	err := r.DB.Where("provider_subscription_id = ?", id).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepository) Create(sub *model.UserSubscription) error {
	return r.DB.Create(sub).Error
}

func (r *SubscriptionRepository) Update(sub *model.UserSubscription) error {
	return r.DB.Save(sub).Error
}

func (r *SubscriptionRepository) Delete(sub *model.UserSubscription) error {
	return r.DB.Delete(sub).Error
}
