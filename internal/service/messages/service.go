// Package messages exposes match conversations: sending, history with
// cursor pagination, delivery/read receipts, the match list and unmatch.
package messages

import (
	"context"
	"strings"
	"time"

	"github.com/coder47007/Campus-Match-App-sub001/internal/app"
	"github.com/coder47007/Campus-Match-App-sub001/internal/db"
	"github.com/coder47007/Campus-Match-App-sub001/internal/dispatch"
	svcErr "github.com/coder47007/Campus-Match-App-sub001/internal/errors"
	"github.com/coder47007/Campus-Match-App-sub001/internal/repository"
)

const pageSize = 50

// SendRequest posts one message into a match's conversation.
type SendRequest struct {
	MatchID  string `json:"-"`
	SenderID uint64 `json:"-"`
	Body     string `json:"body" binding:"required"`
}

// MessageView is the API shape of a message.
type MessageView struct {
	ID          uint64     `json:"id"`
	MatchID     string     `json:"match_id"`
	SenderID    uint64     `json:"sender_id"`
	Body        string     `json:"body"`
	SentAt      time.Time  `json:"sent_at"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
}

// ListResponse is one page of a conversation, newest first.
type ListResponse struct {
	Messages            []MessageView `json:"messages"`
	NextPaginationToken *string       `json:"next_pagination_token,omitempty"`
}

// MatchView is one entry of the viewer's match list.
type MatchView struct {
	MatchID    string             `json:"match_id"`
	OtherParty repository.Profile `json:"other_party"`
	CreatedAt  time.Time          `json:"created_at"`
}

// ReceiptResponse reports how many messages a receipt call stamped.
type ReceiptResponse struct {
	Updated int `json:"updated"`
}

type Service struct {
	appCtx      *app.AppContext
	matchRepo   *repository.MatchRepository
	msgRepo     *repository.MessageRepository
	studentRepo *repository.StudentRepository
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		matchRepo:   repository.NewMatchRepository(appCtx.DB),
		msgRepo:     repository.NewMessageRepository(appCtx.DB),
		studentRepo: repository.NewStudentRepository(appCtx.DB),
	}
}

// activeMatchFor loads the match and verifies the caller is one of its
// parties. Outsiders and dissolved matches both read as not found, so a
// caller cannot probe for other students' conversations.
func (s *Service) activeMatchFor(ctx context.Context, matchID string, studentID uint64) (*db.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		return nil, err
	}
	if !match.Involves(studentID) || !match.IsActive {
		return nil, svcErr.ErrNotFound
	}
	return match, nil
}

// Send stores a message and pushes ReceiveMessage to the other party if
// they are online. The stored row is the source of truth; push failure is
// invisible to the sender.
func (s *Service) Send(ctx context.Context, req SendRequest) (*MessageView, error) {
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, svcErr.ErrInvalidArgument
	}

	match, err := s.activeMatchFor(ctx, req.MatchID, req.SenderID)
	if err != nil {
		return nil, err
	}

	msg := &db.Message{
		MatchID:  match.ID,
		SenderID: req.SenderID,
		Body:     body,
	}
	if err := s.msgRepo.Create(ctx, nil, msg); err != nil {
		return nil, err
	}

	s.appCtx.Dispatcher.NotifyMessage(match.Other(req.SenderID), dispatch.MessageSummary{
		MessageID: msg.ID,
		MatchID:   msg.MatchID,
		SenderID:  msg.SenderID,
		Body:      msg.Body,
		SentAt:    msg.SentAt,
	})

	return viewOf(msg), nil
}

// List returns a page of the conversation, newest first.
func (s *Service) List(ctx context.Context, matchID string, studentID uint64, paginationToken *string) (*ListResponse, error) {
	match, err := s.activeMatchFor(ctx, matchID, studentID)
	if err != nil {
		return nil, err
	}

	msgs, nextToken, err := s.msgRepo.ListByMatch(ctx, match.ID, paginationToken, pageSize)
	if err != nil {
		return nil, err
	}

	resp := &ListResponse{NextPaginationToken: nextToken}
	for i := range msgs {
		resp.Messages = append(resp.Messages, *viewOf(&msgs[i]))
	}
	return resp, nil
}

// MarkDelivered stamps delivered_at on the caller's unacknowledged inbound
// messages and notifies the sender.
func (s *Service) MarkDelivered(ctx context.Context, matchID string, studentID uint64) (*ReceiptResponse, error) {
	return s.receipt(ctx, matchID, studentID, s.msgRepo.MarkDelivered, s.appCtx.Dispatcher.NotifyMessagesDelivered)
}

// MarkRead stamps read_at on the caller's unread inbound messages and
// notifies the sender.
func (s *Service) MarkRead(ctx context.Context, matchID string, studentID uint64) (*ReceiptResponse, error) {
	return s.receipt(ctx, matchID, studentID, s.msgRepo.MarkRead, s.appCtx.Dispatcher.NotifyMessagesRead)
}

func (s *Service) receipt(
	ctx context.Context,
	matchID string,
	studentID uint64,
	stamp func(context.Context, string, uint64) ([]uint64, error),
	notify func(uint64, dispatch.ReceiptSummary),
) (*ReceiptResponse, error) {
	match, err := s.activeMatchFor(ctx, matchID, studentID)
	if err != nil {
		return nil, err
	}

	ids, err := stamp(ctx, match.ID, studentID)
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		notify(match.Other(studentID), dispatch.ReceiptSummary{MatchID: match.ID, MessageIDs: ids})
	}
	return &ReceiptResponse{Updated: len(ids)}, nil
}

// ListMatches returns the viewer's active matches with the other party's
// public summary, newest first.
func (s *Service) ListMatches(ctx context.Context, studentID uint64) ([]MatchView, error) {
	matches, err := s.matchRepo.ListActiveFor(ctx, studentID)
	if err != nil {
		return nil, err
	}

	views := make([]MatchView, 0, len(matches))
	for _, m := range matches {
		profile, err := s.studentRepo.PublicProfile(ctx, m.Other(studentID))
		if err != nil {
			s.appCtx.Logger.Warn("profile lookup failed for match list", "match", m.ID, "err", err)
			profile = &repository.Profile{ID: m.Other(studentID)}
		}
		views = append(views, MatchView{
			MatchID:    m.ID,
			OtherParty: *profile,
			CreatedAt:  m.CreatedAt,
		})
	}
	return views, nil
}

// Unmatch soft-deletes the match. The conversation history is retained;
// this is deliberately different from a rewind, which hard-deletes both.
func (s *Service) Unmatch(ctx context.Context, matchID string, studentID uint64) error {
	match, err := s.activeMatchFor(ctx, matchID, studentID)
	if err != nil {
		return err
	}
	if err := s.matchRepo.Deactivate(ctx, nil, match.ID); err != nil {
		return err
	}
	s.appCtx.Logger.Info("unmatched", "match", match.ID, "by", studentID)
	return nil
}

func viewOf(m *db.Message) *MessageView {
	return &MessageView{
		ID:          m.ID,
		MatchID:     m.MatchID,
		SenderID:    m.SenderID,
		Body:        m.Body,
		SentAt:      m.SentAt,
		DeliveredAt: m.DeliveredAt,
		ReadAt:      m.ReadAt,
	}
}
