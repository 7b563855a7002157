package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/coder47007/Campus-Match-App-sub001/internal/db"
	"github.com/coder47007/Campus-Match-App-sub001/internal/utils/pagination"
)

// MessageRepository provides data access methods for the Message model.
type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(database *gorm.DB) *MessageRepository {
	return &MessageRepository{db: database}
}

func (r *MessageRepository) tx(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// Create inserts a message into a match's conversation.
func (r *MessageRepository) Create(ctx context.Context, tx *gorm.DB, msg *db.Message) error {
	return r.tx(tx).WithContext(ctx).Create(msg).Error
}

// ListByMatch returns the match's messages, newest first, with cursor-based
// pagination keyed on (sent_at, id).
func (r *MessageRepository) ListByMatch(
	ctx context.Context,
	matchID string,
	paginationToken *string,
	limit int,
) ([]db.Message, *string, error) {
	var messages []db.Message

	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, err
	}

	query := r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("sent_at DESC, id DESC").
		Limit(limit + 1)

	if cursor.ID > 0 && cursor.Unix > 0 {
		ts := time.UnixMilli(cursor.Unix)
		query = query.Where(
			"(sent_at < ? OR (sent_at = ? AND id < ?))",
			ts, ts, cursor.ID,
		)
	}

	if err := query.Find(&messages).Error; err != nil {
		return nil, nil, err
	}

	var nextToken *string
	if len(messages) > limit {
		last := messages[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{
			ID:   last.ID,
			Unix: last.SentAt.UnixMilli(),
		})
		nextToken = &token
		messages = messages[:limit]
	}

	return messages, nextToken, nil
}

// DeleteByMatch removes every message of a match. The rewind engine calls
// this before deleting the match row, so referential order holds.
func (r *MessageRepository) DeleteByMatch(ctx context.Context, tx *gorm.DB, matchID string) error {
	return r.tx(tx).WithContext(ctx).Where("match_id = ?", matchID).Delete(&db.Message{}).Error
}

// MarkDelivered stamps delivered_at on every undelivered message sent to
// recipientID in the match and returns the affected message ids.
func (r *MessageRepository) MarkDelivered(ctx context.Context, matchID string, recipientID uint64) ([]uint64, error) {
	return r.stamp(ctx, matchID, recipientID, "delivered_at")
}

// MarkRead stamps read_at on every unread message sent to recipientID in
// the match and returns the affected message ids.
func (r *MessageRepository) MarkRead(ctx context.Context, matchID string, recipientID uint64) ([]uint64, error) {
	return r.stamp(ctx, matchID, recipientID, "read_at")
}

func (r *MessageRepository) stamp(ctx context.Context, matchID string, recipientID uint64, column string) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&db.Message{}).
		Where("match_id = ? AND sender_id <> ? AND "+column+" IS NULL", matchID, recipientID).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	err = r.db.WithContext(ctx).
		Model(&db.Message{}).
		Where("id IN ?", ids).
		Update(column, time.Now().UTC()).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
