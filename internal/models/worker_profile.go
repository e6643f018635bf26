package models

// WorkerProfile - расширение User с ролью worker (0 или 1 на пользователя).
// AverageRating и TotalRatings пересчитываются при каждой новой оценке.
type WorkerProfile struct {
	ID            int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        int64   `gorm:"uniqueIndex;not null" json:"userId"`
	Skill         string  `gorm:"type:varchar(255);index" json:"skill"`
	Description   string  `gorm:"type:text" json:"description"`
	IsAvailable   bool    `gorm:"not null" json:"isAvailable"`
	AverageRating float64 `gorm:"not null;default:0" json:"averageRating"`
	TotalRatings  int     `gorm:"not null;default:0" json:"totalRatings"`
	IsVerified    bool    `gorm:"not null;default:false" json:"isVerified"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}
