package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Sagar1205/QuickTask/internal/consts"
	"github.com/Sagar1205/QuickTask/internal/dao"
	"github.com/Sagar1205/QuickTask/internal/logging"
	"github.com/Sagar1205/QuickTask/internal/model"
)

var ErrInvalidRole = errors.New("role must be viewer or editor")

const userSearchLimit = 10

// ListService owns list and membership CRUD plus the activity trail.
type ListService struct {
	lists    dao.ListDao
	members  dao.MemberDao
	profiles dao.ProfileDao
	audits   dao.AuditDao
	feed     ChangePublisher
}

func NewListService(lists dao.ListDao, members dao.MemberDao, profiles dao.ProfileDao, audits dao.AuditDao, feed ChangePublisher) *ListService {
	return &ListService{lists: lists, members: members, profiles: profiles, audits: audits, feed: feed}
}

func (s *ListService) Visible(ctx context.Context, userID string) ([]*model.ListView, error) {
	return s.lists.ListVisible(ctx, userID)
}

func (s *ListService) Get(ctx context.Context, id string) (*model.TaskList, error) {
	return s.lists.Get(ctx, id)
}

func (s *ListService) Create(ctx context.Context, actor Actor, title string) (*model.TaskList, error) {
	if title == "" {
		return nil, ErrEmptyTitle
	}
	l := &model.TaskList{ID: uuid.NewString(), Title: title, OwnerID: actor.ID}
	if err := s.lists.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("create list: %w", err)
	}
	s.audit(ctx, l.ID, actor, consts.AuditListCreated, "list", "")
	s.feed.PublishChange(ctx, consts.TableLists, l.ID, "insert")
	return l, nil
}

func (s *ListService) Rename(ctx context.Context, actor Actor, id, title string) error {
	if title == "" {
		return ErrEmptyTitle
	}
	if err := s.lists.Rename(ctx, id, title); err != nil {
		return err
	}
	s.audit(ctx, id, actor, consts.AuditListUpdated, "list", "")
	s.feed.PublishChange(ctx, consts.TableLists, id, "update")
	return nil
}

func (s *ListService) Delete(ctx context.Context, actor Actor, id string) error {
	if err := s.lists.Delete(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, id, actor, consts.AuditListDeleted, "list", "")
	s.feed.PublishChange(ctx, consts.TableLists, id, "delete")
	return nil
}

func (s *ListService) Members(ctx context.Context, listID string) ([]*model.MemberProfile, error) {
	return s.members.ListByList(ctx, listID)
}

func (s *ListService) AddMember(ctx context.Context, actor Actor, listID, userID string, role consts.Role) error {
	if !role.Valid() {
		return ErrInvalidRole
	}
	if _, err := s.lists.Get(ctx, listID); err != nil {
		return err
	}
	if err := s.members.Add(ctx, &model.ListMember{ListID: listID, UserID: userID, Role: role}); err != nil {
		return fmt.Errorf("add member: %w", err)
	}
	s.audit(ctx, listID, actor, consts.AuditMemberAdded, "member", "")
	s.feed.PublishChange(ctx, consts.TableMembers, listID, "insert")
	return nil
}

func (s *ListService) RemoveMember(ctx context.Context, actor Actor, listID, userID string) error {
	if err := s.members.Remove(ctx, listID, userID); err != nil {
		return err
	}
	s.audit(ctx, listID, actor, consts.AuditMemberRemoved, "member", "")
	s.feed.PublishChange(ctx, consts.TableMembers, listID, "delete")
	return nil
}

// SearchUsers matches profiles by email substring, excluding the caller.
// An empty query returns nothing without touching the store.
func (s *ListService) SearchUsers(ctx context.Context, email, selfID string) ([]*model.Profile, error) {
	if email == "" {
		return []*model.Profile{}, nil
	}
	return s.profiles.Search(ctx, email, selfID, userSearchLimit)
}

func (s *ListService) audit(ctx context.Context, listID string, actor Actor, action, entityType, metadata string) {
	entry := &model.AuditLog{
		ID:         uuid.NewString(),
		ListID:     listID,
		ActorID:    actor.ID,
		Action:     action,
		EntityType: entityType,
		Metadata:   metadata,
	}
	if err := s.audits.Insert(ctx, entry); err != nil {
		logging.Error(ctx, "audit insert failed",
			zap.String("action", action), zap.String("list_id", listID), zap.Error(err))
	}
}
