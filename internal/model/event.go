package model

import "github.com/Sagar1205/QuickTask/internal/consts"

// NotificationEvent is the JSON body of the notification boundary.
type NotificationEvent struct {
	Type         consts.EventType `json:"type"`
	ListID       string           `json:"listId"`
	ActorUserID  string           `json:"actorUserId"`
	ActorEmail   string           `json:"actorEmail"`
	TargetUserID string           `json:"targetUserId,omitempty"`
	TaskTitle    string           `json:"taskTitle,omitempty"`
}

// ChangeEvent is published on the realtime feed after a mutation.
// Consumers re-fetch the affected table; no row delta is carried.
type ChangeEvent struct {
	Kind   string `json:"kind"` // change | presence
	Table  string `json:"table,omitempty"`
	ListID string `json:"list_id"`
	Action string `json:"action"`
}
