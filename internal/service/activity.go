package service

import (
	"context"
	"fmt"

	"github.com/Sagar1205/QuickTask/internal/consts"
	"github.com/Sagar1205/QuickTask/internal/model"
)

const activityLimit = 100

// ActivityEntry is one audit row with its rendered human-readable line.
type ActivityEntry struct {
	model.AuditLog
	Line string `json:"line"`
}

// Activity returns the list's newest-first trail, each entry rendered for
// the viewing user ("You ..." when the viewer is the actor).
func (s *ListService) Activity(ctx context.Context, listID, viewerID string) ([]*ActivityEntry, error) {
	logs, err := s.audits.ListByList(ctx, listID, activityLimit)
	if err != nil {
		return nil, err
	}

	var actorIDs []string
	seen := map[string]bool{}
	for _, l := range logs {
		if l.ActorID != "" && !seen[l.ActorID] {
			seen[l.ActorID] = true
			actorIDs = append(actorIDs, l.ActorID)
		}
	}
	emails := map[string]string{}
	if profiles, err := s.profiles.ListByIDs(ctx, actorIDs); err == nil {
		for _, p := range profiles {
			emails[p.ID] = p.Email
		}
	}

	out := make([]*ActivityEntry, 0, len(logs))
	for _, l := range logs {
		out = append(out, &ActivityEntry{
			AuditLog: *l,
			Line:     formatActivity(l, emails[l.ActorID], viewerID),
		})
	}
	return out, nil
}

// formatActivity renders one trail line. The wording mirrors what the
// in-app activity modal shows.
func formatActivity(l *model.AuditLog, actorEmail, viewerID string) string {
	actor := "Someone"
	switch {
	case l.ActorID != "" && l.ActorID == viewerID:
		actor = "You"
	case actorEmail != "":
		actor = localPart(actorEmail)
	}

	switch l.Action {
	case consts.AuditListCreated:
		return actor + " created the list"
	case consts.AuditListUpdated:
		return actor + " updated the list"
	case consts.AuditListDeleted:
		return actor + " deleted the list"
	case consts.AuditMemberAdded:
		return actor + " shared the list"
	case consts.AuditMemberRemoved:
		return actor + " removed a member"
	case consts.AuditTaskCreated:
		return fmt.Sprintf("%s added a task %q", actor, l.MetadataTitle())
	case consts.AuditTaskUpdated:
		return actor + " updated a task"
	case consts.AuditTaskDeleted:
		return fmt.Sprintf("%s deleted a task %q", actor, l.MetadataTitle())
	default:
		return actor + " performed an action"
	}
}
