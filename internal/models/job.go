package models

import "time"

type Job struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	EmployerID  int64     `gorm:"not null;index" json:"employerId"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Location    string    `gorm:"type:varchar(255);index" json:"location"`
	Category    string    `gorm:"type:varchar(100);index" json:"category"`
	Wage        string    `gorm:"type:varchar(100)" json:"wage"`
	Duration    *string   `gorm:"type:varchar(100)" json:"duration,omitempty"`
	IsActive    bool      `gorm:"not null" json:"isActive"`
	CreatedAt   time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Employer *User `gorm:"foreignKey:EmployerID" json:"-"`
}

// Application - отклик работника на вакансию. Пара (JobID, WorkerID) уникальна.
type Application struct {
	ID        int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	JobID     int64             `gorm:"not null;uniqueIndex:idx_applications_job_worker,priority:1" json:"jobId"`
	WorkerID  int64             `gorm:"not null;uniqueIndex:idx_applications_job_worker,priority:2;index" json:"workerId"`
	Status    ApplicationStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	AppliedAt time.Time         `gorm:"not null" json:"appliedAt"`
	UpdatedAt time.Time         `json:"updatedAt"`

	Job    *Job  `gorm:"foreignKey:JobID" json:"-"`
	Worker *User `gorm:"foreignKey:WorkerID" json:"-"`
}
