package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/coder47007/Campus-Match-App-sub001/internal/db"
	svcErr "github.com/coder47007/Campus-Match-App-sub001/internal/errors"
	"github.com/coder47007/Campus-Match-App-sub001/internal/utils/pagination"
)

// SwipeRepository provides data access methods for the Swipe model.
// It encapsulates all queries related to directional decisions between
// students.
type SwipeRepository struct {
	db *gorm.DB
}

// NewSwipeRepository creates a new repository bound to the given DB connection.
func NewSwipeRepository(database *gorm.DB) *SwipeRepository {
	return &SwipeRepository{db: database}
}

// tx returns the handle to run queries on: an explicit transaction when
// given, the repository's connection otherwise.
func (r *SwipeRepository) tx(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// Create inserts a swipe for the ordered pair (swiper, swiped).
//
// Behavior:
//   - Exactly one row may exist per ordered pair. A duplicate insert is
//     rejected with ErrAlreadyDecided; the composite primary key closes the
//     race between concurrent identical requests.
//   - Runs on the given transaction so the insert and the pre-checks in the
//     swipe engine share one consistent view.
func (r *SwipeRepository) Create(ctx context.Context, tx *gorm.DB, swipe *db.Swipe) error {
	var count int64
	h := r.tx(tx).WithContext(ctx)
	if err := h.Model(&db.Swipe{}).
		Where("swiper_id = ? AND swiped_id = ?", swipe.SwiperID, swipe.SwipedID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return svcErr.ErrAlreadyDecided
	}

	err := h.Create(swipe).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return svcErr.ErrAlreadyDecided
	}
	return err
}

// Get returns the swipe for the ordered pair, or nil when none exists.
func (r *SwipeRepository) Get(ctx context.Context, tx *gorm.DB, swiperID, swipedID uint64) (*db.Swipe, error) {
	var swipe db.Swipe
	err := r.tx(tx).WithContext(ctx).
		Where("swiper_id = ? AND swiped_id = ?", swiperID, swipedID).
		Take(&swipe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return &swipe, nil
}

// LatestBy returns the student's most recent swipe created at or after the
// cutoff, or nil when none qualifies. Used by the rewind engine's validity
// window.
func (r *SwipeRepository) LatestBy(ctx context.Context, tx *gorm.DB, swiperID uint64, cutoff time.Time) (*db.Swipe, error) {
	var swipe db.Swipe
	err := r.tx(tx).WithContext(ctx).
		Where("swiper_id = ? AND created_at >= ?", swiperID, cutoff).
		Order("created_at DESC").
		Take(&swipe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return &swipe, nil
}

// Delete removes the swipe row for the ordered pair. Only the rewind engine
// calls this.
func (r *SwipeRepository) Delete(ctx context.Context, tx *gorm.DB, swiperID, swipedID uint64) error {
	return r.tx(tx).WithContext(ctx).
		Where("swiper_id = ? AND swiped_id = ?", swiperID, swipedID).
		Delete(&db.Swipe{}).Error
}

// GetLikers returns all students who liked the given recipient.
//
// Behavior:
//   - Only swipes where swiped_id = X and is_like = true are returned.
//   - Excludes students the recipient explicitly passed on.
//   - Ordered by created_at DESC, swiper_id DESC.
//   - Supports cursor-based pagination via paginationToken.
func (r *SwipeRepository) GetLikers(
	ctx context.Context,
	recipientID uint64,
	paginationToken *string,
	limit int,
) ([]db.Swipe, *string, error) {
	return r.likers(ctx, recipientID, paginationToken, limit, false)
}

// GetNewLikers returns students who liked the recipient but have not been
// liked back (mutual likes excluded).
func (r *SwipeRepository) GetNewLikers(
	ctx context.Context,
	recipientID uint64,
	paginationToken *string,
	limit int,
) ([]db.Swipe, *string, error) {
	return r.likers(ctx, recipientID, paginationToken, limit, true)
}

func (r *SwipeRepository) likers(
	ctx context.Context,
	recipientID uint64,
	paginationToken *string,
	limit int,
	excludeMutual bool,
) ([]db.Swipe, *string, error) {
	var swipes []db.Swipe

	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, err
	}

	query := r.db.WithContext(ctx).
		Table("swipes s").
		Where("s.swiped_id = ? AND s.is_like = ?", recipientID, true).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM swipes s2
				WHERE s2.swiper_id = ?
				  AND s2.swiped_id = s.swiper_id
				  AND s2.is_like = ?
			)`, recipientID, false).
		Order("s.created_at DESC, s.swiper_id DESC").
		Limit(limit + 1)

	if excludeMutual {
		subQuery := r.db.
			Table("swipes").
			Select("1").
			Where("swiper_id = s.swiped_id AND swiped_id = s.swiper_id AND is_like = ?", true)
		query = query.Where("NOT EXISTS (?)", subQuery)
	}

	// apply cursor
	if cursor.ID > 0 && cursor.Unix > 0 {
		ts := time.UnixMilli(cursor.Unix)
		query = query.Where(
			"(s.created_at < ? OR (s.created_at = ? AND s.swiper_id < ?))",
			ts, ts, cursor.ID,
		)
	}

	if err := query.Find(&swipes).Error; err != nil {
		return nil, nil, err
	}

	// pagination: build next cursor if needed
	var nextToken *string
	if len(swipes) > limit {
		last := swipes[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{
			ID:   last.SwiperID,
			Unix: last.CreatedAt.UnixMilli(),
		})
		nextToken = &token
		swipes = swipes[:limit]
	}

	return swipes, nextToken, nil
}

// CountLikers returns how many students liked the given recipient,
// excluding those the recipient passed on. Used in conjunction with the
// Redis cache (DB is fallback).
func (r *SwipeRepository) CountLikers(ctx context.Context, recipientID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("swipes s").
		Where("s.swiped_id = ? AND s.is_like = ?", recipientID, true).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM swipes s2
				WHERE s2.swiper_id = ?
				  AND s2.swiped_id = s.swiper_id
				  AND s2.is_like = ?
			)`, recipientID, false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
