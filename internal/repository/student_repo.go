package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/coder47007/Campus-Match-App-sub001/internal/db"
	svcErr "github.com/coder47007/Campus-Match-App-sub001/internal/errors"
)

// Profile is the public summary of a student exposed to other students:
// what the other party sees in a match card or push payload.
type Profile struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	PhotoURL string `json:"photo_url"`
	Major    string `json:"major"`
}

// StudentRepository provides data access for students and block relations.
type StudentRepository struct {
	db *gorm.DB
}

func NewStudentRepository(database *gorm.DB) *StudentRepository {
	return &StudentRepository{db: database}
}

func (r *StudentRepository) tx(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// GetByID returns the student row or ErrNotFound.
func (r *StudentRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint64) (*db.Student, error) {
	var student db.Student
	err := r.tx(tx).WithContext(ctx).Where("id = ?", id).Take(&student).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return &student, nil
}

// PublicProfile returns the public summary for a student.
func (r *StudentRepository) PublicProfile(ctx context.Context, id uint64) (*Profile, error) {
	student, err := r.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	return &Profile{
		ID:       student.ID,
		Name:     student.Name,
		PhotoURL: student.PhotoURL,
		Major:    student.Major,
	}, nil
}

// IsBlockedEither reports whether a block relation exists between the two
// students in either direction.
func (r *StudentRepository) IsBlockedEither(ctx context.Context, tx *gorm.DB, a, b uint64) (bool, error) {
	var count int64
	err := r.tx(tx).WithContext(ctx).
		Model(&db.Block{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)", a, b, b, a).
		Count(&count).Error
	return count > 0, err
}
