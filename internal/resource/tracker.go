// Package resource implements the consumable resource tracker: per-student
// counters (super-likes, rewinds, boosts, swipe quota) with lazy
// reset-on-access and atomic decrement-if-positive consumption.
package resource

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/coder47007/Campus-Match-App-sub001/internal/db"
	svcErr "github.com/coder47007/Campus-Match-App-sub001/internal/errors"
)

// Grant is the outcome of a consume or balance check. When Granted is
// false, ResetAt tells the caller when the counter replenishes so a precise
// retry time can be rendered.
type Grant struct {
	Granted   bool
	Remaining int
	ResetAt   time.Time
}

// columns maps a kind onto the row and columns holding its counter.
// Super-likes and rewinds live on students; boosts and swipe quota on
// subscriptions.
type columns struct {
	table     string
	key       string
	remaining string
	resetAt   string
	onSub     bool
}

var kindColumns = map[Kind]columns{
	KindSuperLike:  {table: "students", key: "id", remaining: "super_likes_remaining", resetAt: "super_likes_reset_at"},
	KindRewind:     {table: "students", key: "id", remaining: "rewinds_remaining", resetAt: "rewinds_reset_at"},
	KindBoost:      {table: "subscriptions", key: "student_id", remaining: "boosts_remaining", resetAt: "boosts_reset_at", onSub: true},
	KindSwipeQuota: {table: "subscriptions", key: "student_id", remaining: "swipes_remaining", resetAt: "swipes_reset_at", onSub: true},
}

// Tracker performs counter operations against the ledger. All methods take
// the transaction handle of the enclosing operation so consumption commits
// or rolls back together with the swipe/rewind that triggered it.
type Tracker struct {
	now func() time.Time
}

func NewTracker() *Tracker {
	return &Tracker{now: func() time.Time { return time.Now().UTC() }}
}

// SetNow overrides the clock. Test use only.
func (t *Tracker) SetNow(now func() time.Time) { t.now = now }

// PlanFor resolves the student's plan tier, lazily creating a free-tier
// subscription row when none exists yet.
func (t *Tracker) PlanFor(ctx context.Context, tx *gorm.DB, studentID uint64) (string, error) {
	sub, err := t.ensureSubscription(ctx, tx, studentID)
	if err != nil {
		return "", err
	}
	return sub.Plan, nil
}

func (t *Tracker) ensureSubscription(ctx context.Context, tx *gorm.DB, studentID uint64) (*db.Subscription, error) {
	now := t.now()
	free := planAllotments[PlanFree]
	sub := db.Subscription{StudentID: studentID}
	err := tx.WithContext(ctx).
		Attrs(db.Subscription{
			Plan:            PlanFree,
			SwipesRemaining: free[KindSwipeQuota].Amount,
			SwipesResetAt:   now.Add(free[KindSwipeQuota].Period),
			BoostsRemaining: free[KindBoost].Amount,
			BoostsResetAt:   now.Add(free[KindBoost].Period),
		}).
		FirstOrCreate(&sub, db.Subscription{StudentID: studentID}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve subscription: %w", err)
	}
	return &sub, nil
}

// TryConsume spends one unit of the kind for the student.
//
// Behavior:
//   - If resetAt is in the past, the counter is reset once to the plan
//     allotment and resetAt advanced by the period, before the check.
//   - Unlimited plans always grant; remaining is reported as 999.
//   - Otherwise the decrement is the conditional UPDATE
//     `SET remaining = remaining - 1 WHERE remaining > 0`, so two
//     concurrent requests can never both spend the last unit.
func (t *Tracker) TryConsume(ctx context.Context, tx *gorm.DB, studentID uint64, kind Kind) (Grant, error) {
	_, allot, err := t.resolve(ctx, tx, studentID, kind)
	if err != nil {
		return Grant{}, err
	}

	if allot.Amount == Unlimited {
		return Grant{Granted: true, Remaining: UnlimitedSentinel}, nil
	}

	spec := kindColumns[kind]
	if err := t.lazyReset(ctx, tx, studentID, spec, allot); err != nil {
		return Grant{}, err
	}

	res := tx.WithContext(ctx).
		Table(spec.table).
		Where(spec.key+" = ? AND "+spec.remaining+" > 0", studentID).
		UpdateColumn(spec.remaining, gorm.Expr(spec.remaining+" - 1"))
	if res.Error != nil {
		return Grant{}, res.Error
	}

	remaining, resetAt, err := t.read(ctx, tx, studentID, spec)
	if err != nil {
		return Grant{}, err
	}

	if res.RowsAffected == 0 {
		return Grant{Granted: false, Remaining: remaining, ResetAt: resetAt}, nil
	}
	return Grant{Granted: true, Remaining: remaining, ResetAt: resetAt}, nil
}

// Refund returns one unit of the kind, used when a super-liked swipe is
// rewound. The increment is deliberately unclamped: if a reset happened
// between consume and refund the counter can briefly exceed the nominal
// allotment, mirroring the consume-side bookkeeping exactly.
func (t *Tracker) Refund(ctx context.Context, tx *gorm.DB, studentID uint64, kind Kind) error {
	_, allot, err := t.resolve(ctx, tx, studentID, kind)
	if err != nil {
		return err
	}
	if allot.Amount == Unlimited {
		return nil
	}

	spec := kindColumns[kind]
	res := tx.WithContext(ctx).
		Table(spec.table).
		Where(spec.key+" = ?", studentID).
		UpdateColumn(spec.remaining, gorm.Expr(spec.remaining+" + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return svcErr.ErrNotFound
	}
	return nil
}

// Balance applies the lazy reset and reports remaining/resetAt without
// consuming.
func (t *Tracker) Balance(ctx context.Context, tx *gorm.DB, studentID uint64, kind Kind) (Grant, error) {
	_, allot, err := t.resolve(ctx, tx, studentID, kind)
	if err != nil {
		return Grant{}, err
	}
	if allot.Amount == Unlimited {
		return Grant{Granted: true, Remaining: UnlimitedSentinel}, nil
	}

	spec := kindColumns[kind]
	if err := t.lazyReset(ctx, tx, studentID, spec, allot); err != nil {
		return Grant{}, err
	}
	remaining, resetAt, err := t.read(ctx, tx, studentID, spec)
	if err != nil {
		return Grant{}, err
	}
	return Grant{Granted: remaining > 0, Remaining: remaining, ResetAt: resetAt}, nil
}

// resolve loads the plan and allotment, creating the subscription row if
// the kind lives there.
func (t *Tracker) resolve(ctx context.Context, tx *gorm.DB, studentID uint64, kind Kind) (string, Allotment, error) {
	spec, ok := kindColumns[kind]
	if !ok {
		return "", Allotment{}, fmt.Errorf("unknown resource kind %q", kind)
	}

	sub, err := t.ensureSubscription(ctx, tx, studentID)
	if err != nil {
		return "", Allotment{}, err
	}

	if !spec.onSub {
		// Counter lives on the student row; verify it exists.
		var count int64
		if err := tx.WithContext(ctx).Model(&db.Student{}).Where("id = ?", studentID).Count(&count).Error; err != nil {
			return "", Allotment{}, err
		}
		if count == 0 {
			return "", Allotment{}, svcErr.ErrNotFound
		}
	}

	return sub.Plan, AllotmentFor(sub.Plan, kind), nil
}

// lazyReset applies at most one reset when resetAt has passed. The guard on
// the old resetAt value makes concurrent resets idempotent: only one
// request observes the stale timestamp.
func (t *Tracker) lazyReset(ctx context.Context, tx *gorm.DB, studentID uint64, spec columns, allot Allotment) error {
	now := t.now()
	return tx.WithContext(ctx).
		Table(spec.table).
		Where(spec.key+" = ? AND "+spec.resetAt+" <= ?", studentID, now).
		UpdateColumns(map[string]interface{}{
			spec.remaining: allot.Amount,
			spec.resetAt:   now.Add(allot.Period),
		}).Error
}

func (t *Tracker) read(ctx context.Context, tx *gorm.DB, studentID uint64, spec columns) (int, time.Time, error) {
	var row struct {
		Remaining int
		ResetAt   time.Time
	}
	err := tx.WithContext(ctx).
		Table(spec.table).
		Select(spec.remaining+" AS remaining, "+spec.resetAt+" AS reset_at").
		Where(spec.key+" = ?", studentID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, time.Time{}, svcErr.ErrNotFound
	} else if err != nil {
		return 0, time.Time{}, err
	}
	return row.Remaining, row.ResetAt, nil
}
