package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Sagar1205/QuickTask/internal/config"
	"github.com/Sagar1205/QuickTask/internal/consts"
	"github.com/Sagar1205/QuickTask/internal/dao"
	"github.com/Sagar1205/QuickTask/internal/logging"
	"github.com/Sagar1205/QuickTask/internal/mailer"
	"github.com/Sagar1205/QuickTask/internal/metrics"
	"github.com/Sagar1205/QuickTask/internal/model"
)

// ErrListNotFound aborts a dispatch before any sends are attempted.
var ErrListNotFound = errors.New("list not found")

// Notifier turns one domain event into zero or more outbound emails:
// at-most-once, best-effort, no retries, no rollback of partial sends.
type Notifier struct {
	lists    dao.ListDao
	members  dao.MemberDao
	profiles dao.ProfileDao
	sender   mailer.Sender
	met      *metrics.Metrics

	from   string
	appURL string
	pause  time.Duration
	sleep  func(time.Duration)
}

func NewNotifier(
	lists dao.ListDao,
	members dao.MemberDao,
	profiles dao.ProfileDao,
	sender mailer.Sender,
	met *metrics.Metrics,
	mailCfg config.MailConfig,
	notifyCfg config.NotifyConfig,
) *Notifier {
	return &Notifier{
		lists:    lists,
		members:  members,
		profiles: profiles,
		sender:   sender,
		met:      met,
		from:     mailCfg.From,
		appURL:   notifyCfg.AppURL,
		pause:    notifyCfg.SendInterval,
		sleep:    time.Sleep,
	}
}

// Dispatch resolves recipients for the event and emails them strictly
// sequentially, pausing after every successful send to stay under the
// provider's rate limits. A failed send is logged and skipped, the rest
// of the fan-out continues.
func (n *Notifier) Dispatch(ctx context.Context, ev model.NotificationEvent) error {
	list, err := n.lists.Get(ctx, ev.ListID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return ErrListNotFound
		}
		return fmt.Errorf("fetch list: %w", err)
	}

	members, err := n.members.ListByList(ctx, ev.ListID)
	if err != nil {
		return fmt.Errorf("fetch members: %w", err)
	}

	// owner email is a fallback only; a missing profile just narrows the fan-out
	var ownerEmail string
	if owner, err := n.profiles.Get(ctx, list.OwnerID); err == nil {
		ownerEmail = owner.Email
	}

	subject := fmt.Sprintf("Activity in %q", list.Title)
	html := buildEmailHTML(ev.ActorEmail, eventMessage(ev.Type, ev.TaskTitle), n.appURL, ev.ListID)

	for _, userID := range resolveRecipientIDs(list, members, ev) {
		email := recipientEmail(userID, list.OwnerID, ownerEmail, members)
		if email == "" {
			continue
		}
		msg := mailer.Message{From: n.from, To: email, Subject: subject, HTML: html}
		if err := n.sender.Send(ctx, msg); err != nil {
			logging.Error(ctx, "mail send failed",
				zap.String("to", email), zap.String("type", string(ev.Type)), zap.Error(err))
			if n.met != nil {
				n.met.EmailsFailed.Inc()
			}
			continue
		}
		if n.met != nil {
			n.met.EmailsSent.Inc()
		}
		n.sleep(n.pause)
	}
	return nil
}

// resolveRecipientIDs computes the ordered recipient set: owner first,
// then members in membership order, actor removed. A member_added event
// with a target replaces all of that with the added user alone.
func resolveRecipientIDs(list *model.TaskList, members []*model.MemberProfile, ev model.NotificationEvent) []string {
	if ev.Type == consts.EventMemberAdded && ev.TargetUserID != "" {
		return []string{ev.TargetUserID}
	}
	seen := map[string]bool{}
	var out []string
	add := func(id string) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		out = append(out, id)
	}
	add(list.OwnerID)
	for _, m := range members {
		add(m.UserID)
	}
	filtered := out[:0]
	for _, id := range out {
		if id != ev.ActorUserID {
			filtered = append(filtered, id)
		}
	}
	return filtered
}

// recipientEmail prefers the membership profile email and falls back to
// the owner's profile email for the owner. Unresolvable recipients are
// skipped silently by the caller.
func recipientEmail(userID, ownerID, ownerEmail string, members []*model.MemberProfile) string {
	for _, m := range members {
		if m.UserID == userID && m.Email != "" {
			return m.Email
		}
	}
	if userID == ownerID {
		return ownerEmail
	}
	return ""
}

// eventMessage is the exhaustive body table; unknown types fall back to
// the type string with underscores spaced out.
func eventMessage(t consts.EventType, taskTitle string) string {
	switch t {
	case consts.EventMemberAdded:
		return "added you to a list"
	case consts.EventTaskCreated:
		return fmt.Sprintf("created a task %q", taskTitle)
	case consts.EventTaskDeleted:
		return fmt.Sprintf("deleted a task %q", taskTitle)
	case consts.EventTaskUpdated:
		return fmt.Sprintf("updated a task %q", taskTitle)
	default:
		return strings.ReplaceAll(string(t), "_", " ")
	}
}

func buildEmailHTML(actorEmail, message, appURL, listID string) string {
	return fmt.Sprintf(
		"<p><strong>%s</strong> %s</p><p><a href=\"%s/lists/%s\">Open list</a></p>",
		localPart(actorEmail), message, appURL, listID,
	)
}

// localPart derives a display name from an email address.
func localPart(email string) string {
	if i := strings.IndexByte(email, '@'); i >= 0 {
		return email[:i]
	}
	return email
}
