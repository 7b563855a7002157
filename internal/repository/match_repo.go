package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coder47007/Campus-Match-App-sub001/internal/db"
	svcErr "github.com/coder47007/Campus-Match-App-sub001/internal/errors"
)

// MatchRepository provides data access methods for the Match model.
type MatchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(database *gorm.DB) *MatchRepository {
	return &MatchRepository{db: database}
}

func (r *MatchRepository) tx(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// CreateForPair inserts the match for two students in canonical order
// (studentA = min, studentB = max), so the same pair can never produce two
// rows regardless of which side completed the reciprocal like.
func (r *MatchRepository) CreateForPair(ctx context.Context, tx *gorm.DB, a, b uint64) (*db.Match, error) {
	if a > b {
		a, b = b, a
	}
	match := &db.Match{
		ID:       uuid.NewString(),
		StudentA: a,
		StudentB: b,
		IsActive: true,
	}
	if err := r.tx(tx).WithContext(ctx).Create(match).Error; err != nil {
		return nil, err
	}
	return match, nil
}

// GetByID returns the match or ErrNotFound.
func (r *MatchRepository) GetByID(ctx context.Context, tx *gorm.DB, id string) (*db.Match, error) {
	var match db.Match
	err := r.tx(tx).WithContext(ctx).Where("id = ?", id).Take(&match).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return &match, nil
}

// GetByPair returns the match between two students (order-insensitive), or
// nil when none exists.
func (r *MatchRepository) GetByPair(ctx context.Context, tx *gorm.DB, a, b uint64) (*db.Match, error) {
	if a > b {
		a, b = b, a
	}
	var match db.Match
	err := r.tx(tx).WithContext(ctx).
		Where("student_a = ? AND student_b = ?", a, b).
		Take(&match).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return &match, nil
}

// ListActiveFor returns all active matches involving the student, newest
// first.
func (r *MatchRepository) ListActiveFor(ctx context.Context, studentID uint64) ([]db.Match, error) {
	var matches []db.Match
	err := r.db.WithContext(ctx).
		Where("(student_a = ? OR student_b = ?) AND is_active = ?", studentID, studentID, true).
		Order("created_at DESC").
		Find(&matches).Error
	return matches, err
}

// Deactivate soft-deletes the match (unmatch). Messages are retained.
func (r *MatchRepository) Deactivate(ctx context.Context, tx *gorm.DB, id string) error {
	res := r.tx(tx).WithContext(ctx).
		Model(&db.Match{}).
		Where("id = ?", id).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return svcErr.ErrNotFound
	}
	return nil
}

// Delete hard-deletes the match row. Only the rewind engine calls this,
// after the match's messages are gone.
func (r *MatchRepository) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	return r.tx(tx).WithContext(ctx).Where("id = ?", id).Delete(&db.Match{}).Error
}
