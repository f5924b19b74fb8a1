package model

import (
	"encoding/json"
	"time"
)

// AuditLog is one activity-trail entry of a list. Metadata is a small
// JSON object, currently `{"title": ...}` for task actions.
type AuditLog struct {
	ID         string    `json:"id" gorm:"primaryKey;size:36"`
	ListID     string    `json:"list_id" gorm:"size:36;index"`
	ActorID    string    `json:"actor_id" gorm:"size:36"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	Metadata   string    `json:"metadata"`
	CreatedAt  time.Time `json:"created_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }

// MetadataTitle extracts the title field from the metadata JSON, if any.
func (a *AuditLog) MetadataTitle() string {
	if a.Metadata == "" {
		return ""
	}
	var m struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal([]byte(a.Metadata), &m); err != nil {
		return ""
	}
	return m.Title
}

// TitleMetadata encodes `{"title": ...}` for task audit entries.
func TitleMetadata(title string) string {
	b, _ := json.Marshal(map[string]string{"title": title})
	return string(b)
}
