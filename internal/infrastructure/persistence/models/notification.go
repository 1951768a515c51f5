package models

import "time"

type NotificationModel struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index;not null"`
	Type      string    `gorm:"type:varchar(48);index;not null"`
	Title     string    `gorm:"type:varchar(255)"`
	Message   string    `gorm:"type:text;not null"`
	Data      string    `gorm:"type:text"`
	Status    string    `gorm:"type:varchar(16);default:sent"`
	SentAt    time.Time `gorm:"index"`
	CreatedAt time.Time
}

func (NotificationModel) TableName() string {
	return "notifications"
}

// NotificationHistoryModel backs the expiry scan's dedup lookback. Append-only.
type NotificationHistoryModel struct {
	ID             uint      `gorm:"primaryKey"`
	UserID         uint      `gorm:"index:idx_notif_history_dedup;not null"`
	Type           string    `gorm:"type:varchar(48);index:idx_notif_history_dedup;not null"`
	Message        string    `gorm:"type:text"`
	SentAt         time.Time `gorm:"index:idx_notif_history_dedup"`
	DeliveryStatus string    `gorm:"type:varchar(16)"`
}

func (NotificationHistoryModel) TableName() string {
	return "notification_history"
}

type NotificationTemplateModel struct {
	ID        uint   `gorm:"primaryKey"`
	Type      string `gorm:"type:varchar(48);index;not null"`
	Subject   string `gorm:"type:varchar(255)"`
	Message   string `gorm:"type:text;not null"`
	IsActive  bool   `gorm:"default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (NotificationTemplateModel) TableName() string {
	return "notification_templates"
}
