package model

import (
	"time"

	"github.com/Sagar1205/QuickTask/internal/consts"
)

type TaskList struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Title     string    `json:"title"`
	OwnerID   string    `json:"owner_id" gorm:"size:36;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (TaskList) TableName() string { return "task_lists" }

type ListMember struct {
	ListID    string      `json:"list_id" gorm:"primaryKey;size:36"`
	UserID    string      `json:"user_id" gorm:"primaryKey;size:36"`
	Role      consts.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

func (ListMember) TableName() string { return "list_members" }

// MemberProfile is a membership row joined with the member's profile email.
type MemberProfile struct {
	UserID string      `json:"user_id"`
	Role   consts.Role `json:"role"`
	Email  string      `json:"email"`
}

// ListView is a list together with the membership rows the caller may see.
type ListView struct {
	TaskList
	Members []ListMember `json:"list_members"`
}
