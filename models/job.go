package models

import (
	"time"

	"gorm.io/datatypes"
)

// Job is owned by the job board; this service only reads it.
type Job struct {
	ID           string                      `gorm:"primaryKey;column:id;type:varchar(36)" json:"id"`
	RecruiterID  string                      `gorm:"column:recruiter_id;type:varchar(36);not null;index" json:"recruiter_id"`
	Title        string                      `gorm:"column:title" json:"title"`
	CompanyName  string                      `gorm:"column:company_name" json:"company_name"`
	Location     string                      `gorm:"column:location" json:"location"`
	Requirements datatypes.JSONSlice[string] `gorm:"column:requirements" json:"requirements"`
	IsOpen       bool                        `gorm:"column:is_open;not null" json:"is_open"`
	CreatedAt    time.Time                   `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time                   `gorm:"column:updated_at" json:"updated_at"`
}

func (Job) TableName() string { return "jobs" }
