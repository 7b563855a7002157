package db

import (
	"time"
)

// Student table. Carries the per-student consumable counters for
// super-likes and rewinds; boost and swipe-quota counters live on the
// Subscription row.
type Student struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	Name         string `gorm:"size:64;not null"`
	Email        string `gorm:"uniqueIndex;size:128;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Gender       string `gorm:"size:16;not null"`
	Major        string `gorm:"size:64"`
	PhotoURL     string `gorm:"size:255"`
	Active       bool   `gorm:"default:true"`

	SuperLikesRemaining int       `gorm:"not null;default:0"`
	SuperLikesResetAt   time.Time `gorm:"not null"`
	RewindsRemaining    int       `gorm:"not null;default:0"`
	RewindsResetAt      time.Time `gorm:"not null"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Subscription holds the plan tier and the plan-scoped consumable counters
// (boosts, daily swipe quota). One row per student; students without a row
// are treated as free tier until one is created lazily.
type Subscription struct {
	StudentID       uint64    `gorm:"primaryKey"`
	Plan            string    `gorm:"size:16;not null;default:free"`
	SwipesRemaining int       `gorm:"not null;default:0"`
	SwipesResetAt   time.Time `gorm:"not null"`
	BoostsRemaining int       `gorm:"not null;default:0"`
	BoostsResetAt   time.Time `gorm:"not null"`
	BoostExpiresAt  time.Time
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

// Swipe is a one-way decision by swiper about swiped.
//
// Composite PK: (SwiperID, SwipedID)
//   - At most one row per ordered pair. A second decision for the same pair
//     is rejected, never overwritten; only a rewind removes the row.
//
// Index idx_swiped_like(swiped_id, is_like) optimizes the reciprocity
// lookup and "who liked me" queries.
type Swipe struct {
	SwiperID    uint64    `gorm:"primaryKey"`
	SwipedID    uint64    `gorm:"primaryKey;index:idx_swiped_like,priority:1"`
	IsLike      bool      `gorm:"not null;index:idx_swiped_like,priority:2"`
	IsSuperLike bool      `gorm:"not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index"`
}

// Match is the bidirectional relationship formed when both directions of a
// pair are likes. StudentA < StudentB always (canonical ordering), so the
// unique pair index holds regardless of which side completed the match.
// IsActive=false marks an unmatch; messages are retained. Only a rewind
// hard-deletes a match.
type Match struct {
	ID        string    `gorm:"primaryKey;size:36"`
	StudentA  uint64    `gorm:"not null;uniqueIndex:idx_match_pair,priority:1"`
	StudentB  uint64    `gorm:"not null;uniqueIndex:idx_match_pair,priority:2"`
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Other returns the opposite party of the match.
func (m Match) Other(studentID uint64) uint64 {
	if m.StudentA == studentID {
		return m.StudentB
	}
	return m.StudentA
}

// Involves reports whether the student is one of the two parties.
func (m Match) Involves(studentID uint64) bool {
	return m.StudentA == studentID || m.StudentB == studentID
}

// Message belongs to exactly one match. DeliveredAt/ReadAt stay nil until
// the recipient acknowledges.
type Message struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	MatchID     string    `gorm:"size:36;not null;index"`
	SenderID    uint64    `gorm:"not null"`
	Body        string    `gorm:"type:text;not null"`
	SentAt      time.Time `gorm:"autoCreateTime;index"`
	DeliveredAt *time.Time
	ReadAt      *time.Time
}

// Block prevents any swipe between the two students, in either direction.
type Block struct {
	BlockerID uint64    `gorm:"primaryKey"`
	BlockedID uint64    `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
