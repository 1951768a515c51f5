package models

import "time"

// ConnectionLogModel is the append-only audit of successful connects.
type ConnectionLogModel struct {
	ID             uint      `gorm:"primaryKey"`
	UserID         uint      `gorm:"index;not null"`
	Platform       string    `gorm:"type:varchar(16)"`
	ConnectionType string    `gorm:"type:varchar(16)"`
	CountryCode    string    `gorm:"type:varchar(8)"`
	CreatedAt      time.Time `gorm:"index"`
}

func (ConnectionLogModel) TableName() string {
	return "connection_logs"
}

type CountryModel struct {
	ID          uint   `gorm:"primaryKey"`
	CountryCode string `gorm:"type:varchar(8);uniqueIndex;not null"`
	CountryName string `gorm:"type:varchar(64);not null"`
	FlagEmoji   string `gorm:"type:varchar(8)"`
	IsAvailable bool   `gorm:"default:true;index"`
	Priority    int    `gorm:"default:0"`
}

func (CountryModel) TableName() string {
	return "available_countries"
}
