package models

import "time"

// SubscriptionModel is the gorm model for subscriptions. The three provider_*
// columns are written together or not at all.
type SubscriptionModel struct {
	ID                  uint      `gorm:"primaryKey"`
	UserID              uint      `gorm:"index;not null"`
	TariffID            uint      `gorm:"index"`
	Status              string    `gorm:"type:varchar(16);index;not null"`
	StartsAt            time.Time `gorm:"not null"`
	ExpiresAt           time.Time `gorm:"index;not null"`
	CountryCode         string    `gorm:"type:varchar(8);default:auto"`
	ProviderClientID    *string   `gorm:"type:varchar(64)"`
	ProviderClientEmail *string   `gorm:"type:varchar(128);uniqueIndex"`
	ProviderInboundID   *int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (SubscriptionModel) TableName() string {
	return "subscriptions"
}
