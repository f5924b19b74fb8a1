package model

import "time"

// Profile is the user-directory row kept in sync by the auth gateway.
type Profile struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Email     string    `json:"email" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
}

func (Profile) TableName() string { return "profiles" }
