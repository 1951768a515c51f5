package models

import "time"

type MailingModel struct {
	ID          uint      `gorm:"primaryKey"`
	TemplateID  uint      `gorm:"index;not null"`
	Segment     string    `gorm:"type:varchar(32);not null"`
	Status      string    `gorm:"type:varchar(16);index;default:scheduled"`
	ScheduledAt time.Time `gorm:"index"`
	StartedAt   *time.Time
	CompletedAt *time.Time
	SentCount   int `gorm:"default:0"`
	FailedCount int `gorm:"default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (MailingModel) TableName() string {
	return "mailings"
}

type MailingTemplateModel struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"type:varchar(128);not null"`
	Subject     string `gorm:"type:varchar(255)"`
	HTMLContent string `gorm:"type:text;column:html_content"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (MailingTemplateModel) TableName() string {
	return "mailing_templates"
}

// MailingHistoryModel records one delivery attempt per recipient. Append-only.
type MailingHistoryModel struct {
	ID             uint      `gorm:"primaryKey"`
	MailingID      uint      `gorm:"index;not null"`
	UserID         uint      `gorm:"index;not null"`
	SentAt         time.Time `gorm:"index"`
	DeliveryStatus string    `gorm:"type:varchar(16)"`
}

func (MailingHistoryModel) TableName() string {
	return "mailing_history"
}
