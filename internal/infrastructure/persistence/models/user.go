package models

import "time"

// UserModel is owned by the excluded account subsystem; this service only
// reads it for mailing segments and admin gating.
type UserModel struct {
	ID         uint   `gorm:"primaryKey"`
	Email      string `gorm:"type:varchar(255);uniqueIndex;not null"`
	Username   string `gorm:"type:varchar(64)"`
	TrialUsed  bool   `gorm:"default:false"`
	IsAdmin    bool   `gorm:"default:false"`
	LastSeenAt time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (UserModel) TableName() string {
	return "users"
}
