package service

import (
	"context"
	"testing"

	"github.com/Sagar1205/QuickTask/internal/consts"
	"github.com/Sagar1205/QuickTask/internal/model"
)

func TestFormatActivity(t *testing.T) {
	cases := []struct {
		name       string
		log        model.AuditLog
		actorEmail string
		viewerID   string
		want       string
	}{
		{
			name:     "viewer is the actor",
			log:      model.AuditLog{ActorID: "u1", Action: consts.AuditListCreated},
			viewerID: "u1",
			want:     "You created the list",
		},
		{
			name:       "other actor shows email local part",
			log:        model.AuditLog{ActorID: "u2", Action: consts.AuditMemberAdded},
			actorEmail: "bob@example.com",
			viewerID:   "u1",
			want:       "bob shared the list",
		},
		{
			name:     "unknown actor",
			log:      model.AuditLog{ActorID: "u3", Action: consts.AuditMemberRemoved},
			viewerID: "u1",
			want:     "Someone removed a member",
		},
		{
			name: "task created carries the title",
			log: model.AuditLog{
				ActorID:  "u1",
				Action:   consts.AuditTaskCreated,
				Metadata: model.TitleMetadata("Ship release"),
			},
			viewerID: "u1",
			want:     `You added a task "Ship release"`,
		},
		{
			name: "task deleted carries the title",
			log: model.AuditLog{
				ActorID:  "u2",
				Action:   consts.AuditTaskDeleted,
				Metadata: model.TitleMetadata("Old task"),
			},
			actorEmail: "bob@example.com",
			viewerID:   "u1",
			want:       `bob deleted a task "Old task"`,
		},
		{
			name:     "task updated has no title",
			log:      model.AuditLog{ActorID: "u1", Action: consts.AuditTaskUpdated},
			viewerID: "u1",
			want:     "You updated a task",
		},
		{
			name:     "unknown action",
			log:      model.AuditLog{ActorID: "u1", Action: "list_archived"},
			viewerID: "u1",
			want:     "You performed an action",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := formatActivity(&c.log, c.actorEmail, c.viewerID); got != c.want {
				t.Fatalf("got %q, want %q", got, c.want)
			}
		})
	}
}

func TestActivityResolvesActorEmails(t *testing.T) {
	audits := &stubAuditDao{entries: []*model.AuditLog{
		{ID: "1", ListID: "L", ActorID: "u2", Action: consts.AuditListUpdated},
		{ID: "2", ListID: "L", ActorID: "u1", Action: consts.AuditListCreated},
	}}
	profiles := &stubProfileDao{profiles: map[string]*model.Profile{
		"u2": {ID: "u2", Email: "bob@example.com"},
	}}
	svc := NewListService(
		&stubListDao{lists: map[string]*model.TaskList{}},
		&stubMemberDao{},
		profiles,
		audits,
		&stubFeed{},
	)

	entries, err := svc.Activity(context.Background(), "L", "u1")
	if err != nil {
		t.Fatalf("activity failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Line != "bob updated the list" {
		t.Fatalf("entry 0: got %q", entries[0].Line)
	}
	if entries[1].Line != "You created the list" {
		t.Fatalf("entry 1: got %q", entries[1].Line)
	}
}
