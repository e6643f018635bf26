package models

import "time"

type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	FullName     string    `gorm:"type:varchar(255);not null" json:"fullName"`
	Phone        string    `gorm:"type:varchar(32)" json:"phone"`
	Email        *string   `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	Role         UserRole  `gorm:"type:varchar(20);not null" json:"role"`
	Location     string    `gorm:"type:varchar(255)" json:"location"`
	CreatedAt    time.Time `gorm:"not null" json:"createdAt"`

	VerificationStatus VerificationStatus `gorm:"type:varchar(20);not null;default:'not_submitted'" json:"verificationStatus"`
	IsVerified         bool               `gorm:"not null;default:false" json:"isVerified"`

	EmailVerified              bool       `gorm:"not null;default:false" json:"emailVerified"`
	EmailVerificationCode      string     `gorm:"type:varchar(16)" json:"-"`
	EmailVerificationExpiresAt *time.Time `json:"-"`
}

// SetVerificationStatus меняет статус верификации и производный флаг IsVerified.
// Любой путь записи статуса должен идти через этот метод.
func (u *User) SetVerificationStatus(status VerificationStatus) {
	u.VerificationStatus = status
	u.IsVerified = status == VerificationStatusVerified
}

func (u *User) HasEmail() bool {
	return u.Email != nil && *u.Email != ""
}

func (u *User) IsWorker() bool {
	return u.Role == UserRoleWorker
}

func (u *User) IsEmployer() bool {
	return u.Role == UserRoleEmployer
}
