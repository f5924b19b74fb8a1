package service

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/Sagar1205/QuickTask/internal/consts"
	"github.com/Sagar1205/QuickTask/internal/dao"
	"github.com/Sagar1205/QuickTask/internal/mailer"
	"github.com/Sagar1205/QuickTask/internal/model"
)

type stubListDao struct {
	lists map[string]*model.TaskList
}

func (s *stubListDao) Create(ctx context.Context, l *model.TaskList) error { return nil }
func (s *stubListDao) Get(ctx context.Context, id string) (*model.TaskList, error) {
	l, ok := s.lists[id]
	if !ok {
		return nil, dao.ErrNotFound
	}
	return l, nil
}
func (s *stubListDao) Rename(ctx context.Context, id, title string) error { return nil }
func (s *stubListDao) Delete(ctx context.Context, id string) error        { return nil }
func (s *stubListDao) ListVisible(ctx context.Context, userID string) ([]*model.ListView, error) {
	return nil, nil
}

type stubMemberDao struct {
	members map[string][]*model.MemberProfile
}

func (s *stubMemberDao) Add(ctx context.Context, m *model.ListMember) error        { return nil }
func (s *stubMemberDao) Remove(ctx context.Context, listID, userID string) error   { return nil }
func (s *stubMemberDao) ListByList(ctx context.Context, listID string) ([]*model.MemberProfile, error) {
	return s.members[listID], nil
}

type stubProfileDao struct {
	profiles    map[string]*model.Profile
	searchCalls int
}

func (s *stubProfileDao) Get(ctx context.Context, id string) (*model.Profile, error) {
	p, ok := s.profiles[id]
	if !ok {
		return nil, dao.ErrNotFound
	}
	return p, nil
}
func (s *stubProfileDao) ListByIDs(ctx context.Context, ids []string) ([]*model.Profile, error) {
	var out []*model.Profile
	for _, id := range ids {
		if p, ok := s.profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}
func (s *stubProfileDao) Search(ctx context.Context, emailLike, excludeID string, limit int) ([]*model.Profile, error) {
	s.searchCalls++
	var out []*model.Profile
	for _, p := range s.profiles {
		if p.ID != excludeID && strings.Contains(p.Email, emailLike) {
			out = append(out, p)
		}
	}
	return out, nil
}

// stubSender records every message and can be told to fail for a recipient.
type stubSender struct {
	sent    []mailer.Message
	failFor map[string]error
}

func (s *stubSender) Send(ctx context.Context, msg mailer.Message) error {
	if err := s.failFor[msg.To]; err != nil {
		return err
	}
	s.sent = append(s.sent, msg)
	return nil
}

// fan-out fixture: owner O plus members A (editor) and B (viewer).
func newNotifyFixture() (*Notifier, *stubSender, *[]time.Duration) {
	lists := &stubListDao{lists: map[string]*model.TaskList{
		"L": {ID: "L", Title: "Groceries", OwnerID: "O"},
	}}
	members := &stubMemberDao{members: map[string][]*model.MemberProfile{
		"L": {
			{UserID: "A", Role: consts.RoleEditor, Email: "alice@example.com"},
			{UserID: "B", Role: consts.RoleViewer, Email: "bob@example.com"},
		},
	}}
	profiles := &stubProfileDao{profiles: map[string]*model.Profile{
		"O": {ID: "O", Email: "owner@example.com"},
	}}
	sender := &stubSender{failFor: map[string]error{}}
	sleeps := &[]time.Duration{}
	n := &Notifier{
		lists:    lists,
		members:  members,
		profiles: profiles,
		sender:   sender,
		from:     "noreply@example.com",
		appURL:   "https://quicktask.click",
		pause:    600 * time.Millisecond,
		sleep:    func(d time.Duration) { *sleeps = append(*sleeps, d) },
	}
	return n, sender, sleeps
}

func TestDispatchFansOutToOwnerAndMembers(t *testing.T) {
	n, sender, sleeps := newNotifyFixture()
	ev := model.NotificationEvent{
		Type:        consts.EventTaskCreated,
		ListID:      "L",
		ActorUserID: "A",
		ActorEmail:  "alice@example.com",
		TaskTitle:   "Ship release",
	}
	if err := n.Dispatch(context.Background(), ev); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	var got []string
	for _, m := range sender.sent {
		got = append(got, m.To)
	}
	want := []string{"owner@example.com", "bob@example.com"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("recipients: got %v, want %v", got, want)
	}
	first := sender.sent[0]
	if first.Subject != `Activity in "Groceries"` {
		t.Fatalf("subject: got %q", first.Subject)
	}
	if !strings.Contains(first.HTML, `created a task "Ship release"`) {
		t.Fatalf("body missing event message: %q", first.HTML)
	}
	if !strings.Contains(first.HTML, "<strong>alice</strong>") {
		t.Fatalf("body missing actor display name: %q", first.HTML)
	}
	if !strings.Contains(first.HTML, "https://quicktask.click/lists/L") {
		t.Fatalf("body missing list link: %q", first.HTML)
	}
	if first.From != "noreply@example.com" {
		t.Fatalf("from: got %q", first.From)
	}
	want2 := []time.Duration{600 * time.Millisecond, 600 * time.Millisecond}
	if !reflect.DeepEqual(*sleeps, want2) {
		t.Fatalf("pauses: got %v, want %v", *sleeps, want2)
	}
}

func TestDispatchMemberAddedNotifiesOnlyTarget(t *testing.T) {
	n, sender, _ := newNotifyFixture()
	ev := model.NotificationEvent{
		Type:         consts.EventMemberAdded,
		ListID:       "L",
		ActorUserID:  "O",
		ActorEmail:   "owner@example.com",
		TargetUserID: "B",
	}
	if err := n.Dispatch(context.Background(), ev); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if len(sender.sent) != 1 || sender.sent[0].To != "bob@example.com" {
		t.Fatalf("expected a single mail to the added user, got %v", sender.sent)
	}
	if !strings.Contains(sender.sent[0].HTML, "added you to a list") {
		t.Fatalf("body: %q", sender.sent[0].HTML)
	}
}

func TestDispatchSendFailureContinues(t *testing.T) {
	n, sender, sleeps := newNotifyFixture()
	sender.failFor["owner@example.com"] = errors.New("smtp: mailbox full")
	ev := model.NotificationEvent{
		Type:        consts.EventTaskDeleted,
		ListID:      "L",
		ActorUserID: "A",
		TaskTitle:   "Old task",
	}
	if err := n.Dispatch(context.Background(), ev); err != nil {
		t.Fatalf("a failed send must not fail the dispatch: %v", err)
	}
	if len(sender.sent) != 1 || sender.sent[0].To != "bob@example.com" {
		t.Fatalf("remaining recipients must still be mailed, got %v", sender.sent)
	}
	// the pause follows successful sends only
	if len(*sleeps) != 1 {
		t.Fatalf("expected 1 pause, got %d", len(*sleeps))
	}
}

func TestDispatchUnknownListAbortsBeforeSending(t *testing.T) {
	n, sender, _ := newNotifyFixture()
	ev := model.NotificationEvent{Type: consts.EventTaskCreated, ListID: "nope", ActorUserID: "A"}
	err := n.Dispatch(context.Background(), ev)
	if !errors.Is(err, ErrListNotFound) {
		t.Fatalf("expected ErrListNotFound, got %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("no mail may be sent for an unknown list")
	}
}

func TestDispatchSkipsUnresolvableRecipients(t *testing.T) {
	n, sender, _ := newNotifyFixture()
	// drop the owner's profile: the owner stays in the recipient set but
	// resolves to no address and is skipped silently
	n.profiles = &stubProfileDao{profiles: map[string]*model.Profile{}}
	ev := model.NotificationEvent{
		Type:        consts.EventTaskUpdated,
		ListID:      "L",
		ActorUserID: "A",
		TaskTitle:   "Milk",
	}
	if err := n.Dispatch(context.Background(), ev); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if len(sender.sent) != 1 || sender.sent[0].To != "bob@example.com" {
		t.Fatalf("expected only the resolvable member, got %v", sender.sent)
	}
}

func TestResolveRecipientIDs(t *testing.T) {
	list := &model.TaskList{ID: "L", OwnerID: "O"}
	members := []*model.MemberProfile{
		{UserID: "A"}, {UserID: "B"}, {UserID: "O"}, {UserID: "A"},
	}
	ev := model.NotificationEvent{Type: consts.EventTaskCreated, ActorUserID: "A"}

	got := resolveRecipientIDs(list, members, ev)
	want := []string{"O", "B"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	// resolution is pure: a second pass over the same inputs agrees
	again := resolveRecipientIDs(list, members, ev)
	if !reflect.DeepEqual(got, again) {
		t.Fatalf("resolution not stable: %v vs %v", got, again)
	}
}

func TestResolveRecipientIDsActorIsOwner(t *testing.T) {
	list := &model.TaskList{ID: "L", OwnerID: "O"}
	members := []*model.MemberProfile{{UserID: "A"}, {UserID: "B"}}
	ev := model.NotificationEvent{Type: consts.EventTaskUpdated, ActorUserID: "O"}
	got := resolveRecipientIDs(list, members, ev)
	want := []string{"A", "B"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestEventMessage(t *testing.T) {
	cases := []struct {
		typ   consts.EventType
		title string
		want  string
	}{
		{consts.EventMemberAdded, "", "added you to a list"},
		{consts.EventTaskCreated, "Ship release", `created a task "Ship release"`},
		{consts.EventTaskDeleted, "Old task", `deleted a task "Old task"`},
		{consts.EventTaskUpdated, "Milk", `updated a task "Milk"`},
		{consts.EventType("list_archived"), "", "list archived"},
		// every underscore is spaced out, not just the first
		{consts.EventType("task_due_soon"), "", "task due soon"},
	}
	for _, c := range cases {
		if got := eventMessage(c.typ, c.title); got != c.want {
			t.Errorf("eventMessage(%q): got %q, want %q", c.typ, got, c.want)
		}
	}
}

func TestLocalPart(t *testing.T) {
	if got := localPart("alice@example.com"); got != "alice" {
		t.Fatalf("got %q", got)
	}
	if got := localPart("no-at-sign"); got != "no-at-sign" {
		t.Fatalf("got %q", got)
	}
}
