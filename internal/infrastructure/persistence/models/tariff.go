package models

import "time"

// TariffModel is the gorm model for plans.
type TariffModel struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"type:varchar(100);not null"`
	IsActive  bool   `gorm:"default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (TariffModel) TableName() string {
	return "tariffs"
}
