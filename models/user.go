package models

import (
	"strings"
	"time"
)

type Role string

const (
	RoleStudent   Role = "STUDENT"
	RoleRecruiter Role = "RECRUITER"
)

// User is the profile view this service needs; profiles are managed elsewhere.
type User struct {
	ID         string    `gorm:"primaryKey;column:id;type:varchar(36)" json:"id"`
	FirstName  string    `gorm:"column:first_name" json:"first_name"`
	LastName   string    `gorm:"column:last_name" json:"last_name"`
	Email      string    `gorm:"column:email;uniqueIndex;type:varchar(255)" json:"email"`
	Role       Role      `gorm:"column:role;type:varchar(16)" json:"role"`
	ResumeURL  string    `gorm:"column:resume_url" json:"resume_url,omitempty"`
	ResumeText string    `gorm:"column:resume_text;type:text" json:"-"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (User) TableName() string { return "users" }

// DisplayName joins first and last name, falling back to the email.
func (u User) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name == "" {
		return u.Email
	}
	return name
}
