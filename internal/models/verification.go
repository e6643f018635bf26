package models

import "time"

type VerificationDocument struct {
	ID             int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         int64          `gorm:"not null;index" json:"userId"`
	DocumentType   DocumentType   `gorm:"type:varchar(32);not null" json:"documentType"`
	DocumentNumber string         `gorm:"type:varchar(64);not null" json:"documentNumber"`
	ImagePath      string         `gorm:"type:varchar(512);not null" json:"imagePath"`
	Status         DocumentStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	SubmittedAt    time.Time      `gorm:"not null" json:"submittedAt"`
	ReviewedAt     *time.Time     `json:"reviewedAt,omitempty"`
	ReviewerNotes  *string        `gorm:"type:text" json:"reviewerNotes,omitempty"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}
